package evalbuilder

import (
	"github.com/pkg/errors"

	"github.com/zugzwang-chess/zugzwang/pkg/eval"
	material "github.com/zugzwang-chess/zugzwang/pkg/eval/material"
)

// Get returns a factory that builds one evaluator per search thread.
func Get(key string) (func() interface{}, error) {
	switch key {
	case "", "classic":
		return func() interface{} { return eval.NewEvaluationService() }, nil
	case "material":
		return func() interface{} { return material.NewEvaluationService() }, nil
	}
	return nil, errors.Errorf("bad eval %q", key)
}
