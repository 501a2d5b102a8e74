package usecase

// ComputeStats is exported for testing
var ComputeStats = computeStats
