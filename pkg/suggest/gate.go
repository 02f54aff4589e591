package suggest

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/matzehuels/pathloom/pkg/entity"
)

// Gate decides whether a provider applies to a hub.
type Gate interface {
	Allow(hub entity.Entity) bool
}

// ExprGate is a Gate defined by a boolean expression over the hub:
//
//	kind != "Metabolite" && data_source in ["EntrezGene", "Ensembl"]
//
// Available variables: id, data_source, kind, label, organism.
type ExprGate struct {
	source  string
	program *vm.Program
}

// NewExprGate compiles src.
func NewExprGate(src string) (*ExprGate, error) {
	program, err := expr.Compile(src, expr.Env(gateEnv(entity.Entity{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile gate %q: %w", src, err)
	}
	return &ExprGate{source: src, program: program}, nil
}

// Allow evaluates the expression. Evaluation errors deny.
func (g *ExprGate) Allow(hub entity.Entity) bool {
	out, err := expr.Run(g.program, gateEnv(hub))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (g *ExprGate) String() string { return g.source }

func gateEnv(hub entity.Entity) map[string]any {
	return map[string]any{
		"id":          hub.ID,
		"data_source": string(hub.DataSource),
		"kind":        string(hub.Kind),
		"label":       hub.Label,
		"organism":    hub.OrganismOrDefault(),
	}
}
