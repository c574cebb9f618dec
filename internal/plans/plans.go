// Package plans holds the subscription catalog. The catalog ships
// embedded so every binary prices identically; an override file can be
// supplied for staging experiments.
package plans

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

//go:embed plans.yaml
var embeddedCatalog []byte

type Plan struct {
	PlanID     string       `yaml:"plan_id" json:"plan_id"`
	Name       string       `yaml:"name" json:"name"`
	NameIT     string       `yaml:"name_it" json:"name_it"`
	Price      float64      `yaml:"price" json:"price"`
	Currency   string       `yaml:"currency" json:"currency"`
	Features   []string     `yaml:"features" json:"features"`
	FeaturesIT []string     `yaml:"features_it" json:"features_it"`
	Quota      domain.Quota `yaml:"quota" json:"quota"`
}

type Catalog struct {
	plans []Plan
	byID  map[string]Plan
}

func Load() (*Catalog, error) {
	return parse(embeddedCatalog)
}

// LoadFile reads an override catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan catalog: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse plan catalog: %w", err)
	}
	if len(doc.Plans) == 0 {
		return nil, fmt.Errorf("plan catalog is empty")
	}
	c := &Catalog{plans: doc.Plans, byID: make(map[string]Plan, len(doc.Plans))}
	for _, p := range doc.Plans {
		if p.PlanID == "" {
			return nil, fmt.Errorf("plan with empty plan_id")
		}
		if _, dup := c.byID[p.PlanID]; dup {
			return nil, fmt.Errorf("duplicate plan_id %q", p.PlanID)
		}
		c.byID[p.PlanID] = p
	}
	for _, required := range []string{"free", "enterprise"} {
		if _, ok := c.byID[required]; !ok {
			return nil, fmt.Errorf("plan catalog missing %q plan", required)
		}
	}
	return c, nil
}

// All returns plans in catalog order.
func (c *Catalog) All() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

func (c *Catalog) Get(planID string) (Plan, bool) {
	p, ok := c.byID[planID]
	return p, ok
}

// Purchasable reports whether a plan can go through checkout. The free
// plan is assigned, never bought.
func (c *Catalog) Purchasable(planID string) (Plan, bool) {
	p, ok := c.byID[planID]
	if !ok || p.PlanID == "free" {
		return Plan{}, false
	}
	return p, true
}
