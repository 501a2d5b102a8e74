package safe_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dualscope/pkg/utils/safe"
)

type failingCloser struct{ called bool }

func (c *failingCloser) Close() error {
	c.called = true
	return errors.New("close failed")
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	safe.Close(ctx, nil)

	c := &failingCloser{}
	safe.Close(ctx, c)
	gt.Bool(t, c.called).True()
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	safe.Write(context.Background(), &buf, []byte("ok"))
	gt.Value(t, buf.String()).Equal("ok")
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leftover.tmp")
	gt.NoError(t, os.WriteFile(path, []byte("x"), 0o600)).Required()

	safe.Remove(ctx, path)
	_, err := os.Stat(path)
	gt.Bool(t, os.IsNotExist(err)).True()

	// removing again is a no-op
	safe.Remove(ctx, path)
}
