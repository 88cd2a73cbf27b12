package mekiki

import (
	"github.com/isuzumi2025-cell/MEKIKI-sub002/cluster"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/fusion"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/match"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/propagate"
)

// CompareOptions holds the configuration for a comparison run.
type CompareOptions struct {
	clusterConfig   cluster.Config
	weights         fusion.Weights
	matchConfig     match.Config
	propagateConfig propagate.Config
}

// defaultOptions returns the default comparison configuration: document
// alignment weights and the standard tolerances of every stage.
func defaultOptions() CompareOptions {
	return CompareOptions{
		clusterConfig:   cluster.DefaultConfig(),
		weights:         fusion.DocumentWeights(),
		matchConfig:     match.DefaultConfig(),
		propagateConfig: propagate.DefaultConfig(),
	}
}

// clone creates a deep copy of CompareOptions.
func (o CompareOptions) clone() CompareOptions {
	newOpts := o
	if o.matchConfig.Pinned != nil {
		newOpts.matchConfig.Pinned = make([]model.SyncPair, len(o.matchConfig.Pinned))
		copy(newOpts.matchConfig.Pinned, o.matchConfig.Pinned)
	}
	if o.propagateConfig.VisualThresholds != nil {
		newOpts.propagateConfig.VisualThresholds = make([]float64, len(o.propagateConfig.VisualThresholds))
		copy(newOpts.propagateConfig.VisualThresholds, o.propagateConfig.VisualThresholds)
	}
	return newOpts
}
