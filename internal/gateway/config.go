package gateway

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"aim/internal/domain"
)

// Config supplies mapping specifications and calculator schemas loaded from a
// single YAML document. Rule shapes are validated when the file is loaded so
// the mapping engine never sees a malformed entry.
type Config struct {
	mappings    map[string]*domain.MappingSpec
	calculators map[string]*domain.CalculatorSchema
}

type configFile struct {
	Mappings    map[string]*specDocument            `yaml:"mappings"`
	Calculators map[string][]domain.CalculatorField `yaml:"calculators"`
}

// LoadConfig reads and validates the configuration file.
func LoadConfig(path string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid configuration file %s: %w", path, err)
	}

	cfg := &Config{
		mappings:    make(map[string]*domain.MappingSpec, len(file.Mappings)),
		calculators: make(map[string]*domain.CalculatorSchema, len(file.Calculators)),
	}
	for product, doc := range file.Mappings {
		cfg.mappings[product] = &domain.MappingSpec{
			ProductType: product,
			Fields:      doc.fields,
		}
	}
	for product, fields := range file.Calculators {
		for _, f := range fields {
			if f.Name == "" {
				return nil, fmt.Errorf("calculator %q declares a field without a name", product)
			}
		}
		cfg.calculators[product] = &domain.CalculatorSchema{
			ProductType: product,
			Fields:      fields,
		}
	}

	logger.Info("configuration loaded",
		zap.String("path", path),
		zap.Int("mapping_specs", len(cfg.mappings)),
		zap.Int("calculators", len(cfg.calculators)))
	return cfg, nil
}

// FieldMappings returns the mapping specification for a product type.
func (c *Config) FieldMappings(productType string) (*domain.MappingSpec, error) {
	spec, ok := c.mappings[productType]
	if !ok {
		return nil, fmt.Errorf("mapping specification %q: %w", productType, domain.ErrSpecNotFound)
	}
	return spec, nil
}

// Calculator returns the calculator schema for a product type.
func (c *Config) Calculator(productType string) (*domain.CalculatorSchema, error) {
	schema, ok := c.calculators[productType]
	if !ok {
		return nil, fmt.Errorf("calculator schema %q: %w", productType, domain.ErrSpecNotFound)
	}
	return schema, nil
}

// Products lists the product types with a mapping specification, sorted.
func (c *Config) Products() []string {
	products := make([]string, 0, len(c.mappings))
	for product := range c.mappings {
		products = append(products, product)
	}
	sort.Strings(products)
	return products
}

// specDocument decodes one product's mapping block, preserving the document
// order of its field entries.
type specDocument struct {
	fields []domain.FieldMapping
}

func (d *specDocument) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: mapping specification must be a mapping of source field to rule", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		source := node.Content[i].Value
		mapping, err := parseFieldMapping(source, node.Content[i+1])
		if err != nil {
			return err
		}
		d.fields = append(d.fields, mapping)
	}
	return nil
}

// ruleAttributes are the keys a complex mapping entry may carry.
var ruleAttributes = map[string]bool{
	"target_field":  true,
	"data_type":     true,
	"value_mapping": true,
	"scale_factor":  true,
	"conditions":    true,
}

// parseFieldMapping resolves one specification entry into the tagged variant:
// a scalar is a simple rename, a mapping is a complex rule. Anything else is
// rejected here rather than at transformation time.
func parseFieldMapping(source string, node *yaml.Node) (domain.FieldMapping, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var target string
		if err := node.Decode(&target); err != nil || target == "" {
			return domain.FieldMapping{}, fmt.Errorf("line %d: field %q: simple mapping must be a non-empty target field name", node.Line, source)
		}
		return domain.FieldMapping{Source: source, Target: target}, nil

	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if key := node.Content[i].Value; !ruleAttributes[key] {
				return domain.FieldMapping{}, fmt.Errorf("line %d: field %q: unknown rule attribute %q", node.Content[i].Line, source, key)
			}
		}
		var raw struct {
			TargetField string           `yaml:"target_field"`
			Rule        domain.FieldRule `yaml:",inline"`
		}
		if err := node.Decode(&raw); err != nil {
			return domain.FieldMapping{}, fmt.Errorf("line %d: field %q: %w", node.Line, source, err)
		}
		if err := validateRule(source, &raw.Rule); err != nil {
			return domain.FieldMapping{}, err
		}
		mapping := domain.FieldMapping{Source: source, Target: raw.TargetField}
		if hasTransformations(&raw.Rule) {
			rule := raw.Rule
			mapping.Rule = &rule
		} else if raw.TargetField == "" {
			return domain.FieldMapping{}, fmt.Errorf("field %q: rule declares neither a target field nor a transformation", source)
		}
		return mapping, nil

	default:
		return domain.FieldMapping{}, fmt.Errorf("line %d: field %q: rule must be a target field name or a rule object", node.Line, source)
	}
}

func hasTransformations(rule *domain.FieldRule) bool {
	return rule.DataType != "" || len(rule.ValueMapping) > 0 || rule.ScaleFactor != nil || len(rule.Conditions) > 0
}

func validateRule(source string, rule *domain.FieldRule) error {
	if rule.DataType != "" && !rule.DataType.Valid() {
		return fmt.Errorf("field %q: unknown data type %q", source, rule.DataType)
	}
	for _, cond := range rule.Conditions {
		if !cond.Operator.Valid() {
			return fmt.Errorf("field %q: unknown condition operator %q", source, cond.Operator)
		}
	}
	return nil
}
