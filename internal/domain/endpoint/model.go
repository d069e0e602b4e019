package endpoint

import (
	"github.com/go-playground/validator/v10"

	"github.com/courtdata/statsync/internal/domain/registry"
)

var validate = validator.New()

// Contract declares one upstream endpoint: its name, the parameter names it
// requires, and whether it produces a registry. Contracts come from external
// configuration; axes are recognized from Params against the axis catalog.
type Contract struct {
	Name string `json:"name" validate:"required"`
	// Params are the upstream parameter names, in the upstream's own
	// spelling. Names the axis catalog does not recognize must be covered
	// by Static.
	Params []string `json:"params"`
	// Static supplies fixed values for unrecognized parameters.
	Static map[string]string `json:"static,omitempty"`
	// Produces marks a registry-producing endpoint (master collector).
	Produces registry.Domain `json:"produces,omitempty" validate:"omitempty,oneof=game player team"`
	// LeagueScoped endpoints repeat their space per configured league even
	// when no league parameter is declared.
	LeagueScoped bool `json:"league_scoped"`
}

func (c Contract) Validate() error {
	return validate.Struct(c)
}

// Axes returns the contract's recognized axes in canonical order.
func (c Contract) Axes() []Axis {
	return recognizeAxes(c.Params)
}

// IsProducer reports whether the endpoint populates a registry domain.
func (c Contract) IsProducer() bool {
	return c.Produces.Valid()
}

// DependsOn lists the registry domains the contract's entity axes read. A
// producer never depends on the domain it produces.
func (c Contract) DependsOn() []registry.Domain {
	var out []registry.Domain
	for _, axis := range c.Axes() {
		if axis.Kind != KindEntity {
			continue
		}
		if c.Produces == axis.Domain {
			continue
		}
		out = append(out, axis.Domain)
	}
	return out
}
