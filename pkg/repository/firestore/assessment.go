package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AssessmentsCollection is the unprefixed collection name
const AssessmentsCollection = "assessments"

type axisScoreDocument struct {
	Score         int    `firestore:"score"`
	Rationale     string `firestore:"rationale"`
	ReverseScored bool   `firestore:"reverse_scored"`
}

type axisInfoDocument struct {
	ID            string `firestore:"id"`
	Name          string `firestore:"name"`
	Section       string `firestore:"section"`
	ReverseScored bool   `firestore:"reverse_scored"`
}

type assessmentDocument struct {
	ID              string                       `firestore:"id"`
	Timestamp       time.Time                    `firestore:"timestamp"`
	Title           string                       `firestore:"title"`
	Abstract        string                       `firestore:"abstract"`
	Snippet         string                       `firestore:"snippet"`
	SourceURL       string                       `firestore:"source_url"`
	Dissemination   string                       `firestore:"dissemination"`
	Audience        string                       `firestore:"audience"`
	Category        string                       `firestore:"category"`
	Scores          map[string]axisScoreDocument `firestore:"scores"`
	Tier            string                       `firestore:"tier"`
	Recommendations []string                     `firestore:"recommendations"`
	AxesUsed        []axisInfoDocument           `firestore:"axes_used"`
}

func toDocument(a *model.Assessment) *assessmentDocument {
	doc := &assessmentDocument{
		ID:              a.ID.String(),
		Timestamp:       a.Timestamp,
		Title:           a.Input.Title,
		Abstract:        a.Input.Abstract,
		Snippet:         a.Input.Snippet,
		SourceURL:       a.Input.SourceURL,
		Dissemination:   a.Input.Dissemination.String(),
		Audience:        a.Input.Audience.String(),
		Category:        a.Input.Category.String(),
		Scores:          make(map[string]axisScoreDocument, a.Scores.Len()),
		Tier:            a.Tier.String(),
		Recommendations: a.Recommendations,
		AxesUsed:        make([]axisInfoDocument, 0, len(a.AxesUsed)),
	}
	for id, s := range a.Scores.Scores {
		doc.Scores[id] = axisScoreDocument{
			Score:         s.Score,
			Rationale:     s.Rationale,
			ReverseScored: s.ReverseScored,
		}
	}
	for _, info := range a.AxesUsed {
		doc.AxesUsed = append(doc.AxesUsed, axisInfoDocument{
			ID:            info.ID,
			Name:          info.Name,
			Section:       info.Section,
			ReverseScored: info.ReverseScored,
		})
	}
	return doc
}

func (d *assessmentDocument) toModel() *model.Assessment {
	a := &model.Assessment{
		ID:        model.AssessmentID(d.ID),
		Timestamp: d.Timestamp,
		Input: model.ResearchInput{
			Title:         d.Title,
			Abstract:      d.Abstract,
			Snippet:       d.Snippet,
			SourceURL:     d.SourceURL,
			Dissemination: types.Dissemination(d.Dissemination),
			Audience:      types.Audience(d.Audience),
			Category:      types.Category(d.Category),
		},
		Scores:          model.NewRiskScores(),
		Tier:            types.Tier(d.Tier),
		Recommendations: d.Recommendations,
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	for id, s := range d.Scores {
		a.Scores.Scores[id] = model.AxisScore{
			Score:         s.Score,
			Rationale:     s.Rationale,
			ReverseScored: s.ReverseScored,
		}
	}
	for _, info := range d.AxesUsed {
		a.AxesUsed = append(a.AxesUsed, model.AxisInfo{
			ID:            info.ID,
			Name:          info.Name,
			Section:       info.Section,
			ReverseScored: info.ReverseScored,
		})
	}
	return a
}

var _ interfaces.AssessmentFilterLister = &assessmentRepository{}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *assessmentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + AssessmentsCollection
	}
	return AssessmentsCollection
}

func (r *assessmentRepository) Put(ctx context.Context, assessment *model.Assessment) error {
	if assessment == nil || assessment.ID == "" {
		return goerr.New("assessment id is required")
	}

	docRef := r.client.Collection(r.collection()).Doc(assessment.ID.String())
	if _, err := docRef.Set(ctx, toDocument(assessment)); err != nil {
		return goerr.Wrap(err, "failed to put assessment", goerr.V("id", assessment.ID))
	}
	return nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var assessmentDoc assessmentDocument
	if err := doc.DataTo(&assessmentDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}
	return assessmentDoc.toModel(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	assessments := []*model.Assessment{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		var assessmentDoc assessmentDocument
		if err := doc.DataTo(&assessmentDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("doc_id", doc.Ref.ID))
		}
		assessments = append(assessments, assessmentDoc.toModel())
	}

	return assessments, nil
}

// ListFiltered pushes the equality filters and the date range down to Firestore. The
// composite indexes it relies on are created by the migrate command.
func (r *assessmentRepository) ListFiltered(ctx context.Context, filter model.StatsFilter) ([]*model.Assessment, error) {
	q := r.client.Collection(r.collection()).Query
	if filter.Tier != "" {
		q = q.Where("tier", "==", filter.Tier.String())
	}
	if filter.Category != "" {
		q = q.Where("category", "==", filter.Category)
	}
	if filter.Dissemination != "" {
		q = q.Where("dissemination", "==", filter.Dissemination.String())
	}
	if filter.Audience != "" {
		q = q.Where("audience", "==", filter.Audience.String())
	}
	if filter.DateFrom != nil {
		q = q.Where("timestamp", ">=", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("timestamp", "<", filter.DateTo.AddDate(0, 0, 1))
	}

	iter := q.OrderBy("timestamp", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	assessments := []*model.Assessment{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate filtered assessments")
		}

		var assessmentDoc assessmentDocument
		if err := doc.DataTo(&assessmentDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("doc_id", doc.Ref.ID))
		}
		assessments = append(assessments, assessmentDoc.toModel())
	}

	return assessments, nil
}
