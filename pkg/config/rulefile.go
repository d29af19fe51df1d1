package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/gatehouse-io/gatehouse/pkg/guard"
	"github.com/gatehouse-io/gatehouse/pkg/routes"
)

//go:embed ruleset.schema.json
var ruleSetSchema []byte

// RuleFile is the on-disk YAML form of a guard rule set.
type RuleFile struct {
	Bypass            []PatternEntry `yaml:"bypass"`
	Public            []PublicEntry  `yaml:"public"`
	Guards            []GuardEntry   `yaml:"guards"`
	ProtectedPrefixes []string       `yaml:"protected_prefixes"`
}

// PatternEntry is one exact/prefix pattern in the rule file.
type PatternEntry struct {
	Kind  string `yaml:"kind"`
	Value string `yaml:"value"`
}

// PublicEntry is one public-route rule in the rule file.
type PublicEntry struct {
	ID    string `yaml:"id"`
	Kind  string `yaml:"kind"`
	Value string `yaml:"value"`
}

// GuardEntry is one guard rule in the rule file.
type GuardEntry struct {
	ID                   string `yaml:"id"`
	Scope                string `yaml:"scope"`
	Kind                 string `yaml:"kind"`
	Value                string `yaml:"value"`
	AuthRequired         bool   `yaml:"auth_required"`
	OrganizationRequired bool   `yaml:"organization_required"`
	SuperAdminRequired   bool   `yaml:"super_admin_required"`
}

// LoadRuleSet reads, schema-validates and decodes a rule file into the
// registry's declarative input plus any protected prefixes it carries.
func LoadRuleSet(path string) (guard.RuleSet, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return guard.RuleSet{}, nil, fmt.Errorf("read rule file %q: %w", path, err)
	}
	return ParseRuleSet(data)
}

// ParseRuleSet validates and decodes rule file contents.
func ParseRuleSet(data []byte) (guard.RuleSet, []string, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return guard.RuleSet{}, nil, fmt.Errorf("parse rule file: %w", err)
	}

	if err := validateRuleDoc(doc); err != nil {
		return guard.RuleSet{}, nil, fmt.Errorf("rule file invalid: %w", err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return guard.RuleSet{}, nil, fmt.Errorf("decode rule file: %w", err)
	}

	rs := guard.RuleSet{}
	for _, e := range file.Bypass {
		rs.Bypass = append(rs.Bypass, pattern(e.Kind, e.Value))
	}
	for _, e := range file.Public {
		rs.Public = append(rs.Public, guard.PublicRule{
			ID:      e.ID,
			Pattern: pattern(e.Kind, e.Value),
		})
	}
	for _, e := range file.Guards {
		rs.Guards = append(rs.Guards, guard.Rule{
			ID:                   e.ID,
			Scope:                guard.Scope(e.Scope),
			Pattern:              pattern(e.Kind, e.Value),
			AuthRequired:         e.AuthRequired,
			OrganizationRequired: e.OrganizationRequired,
			SuperAdminRequired:   e.SuperAdminRequired,
		})
	}
	return rs, file.ProtectedPrefixes, nil
}

func pattern(kind, value string) routes.Pattern {
	if kind == string(routes.KindExact) {
		return routes.Exact(value)
	}
	return routes.Prefix(value)
}

// validateRuleDoc checks the decoded document against the embedded JSON
// Schema. YAML decoding already yields string-keyed maps, but the schema
// library compares against JSON types, so round-trip through JSON first.
func validateRuleDoc(doc any) error {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource("ruleset.schema.json", bytes.NewReader(ruleSetSchema)); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	schema, err := c.Compile("ruleset.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("canonicalize document: %w", err)
	}
	var jsonDoc any
	if err := json.Unmarshal(raw, &jsonDoc); err != nil {
		return err
	}
	return schema.Validate(jsonDoc)
}
