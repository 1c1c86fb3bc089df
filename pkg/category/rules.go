package category

import (
	"fmt"
	"os"
	"strings"

	"github.com/yurifrl/fluxo/pkg/models"
	"gopkg.in/yaml.v3"
)

// DefaultRules is the household rule table.
func DefaultRules() []Rule {
	return []Rule{
		{Keywords: []string{"luz", "cemig", "energia"}, Direction: models.Expense, Label: "Energia Elétrica"},
		{Keywords: []string{"água", "agua", "saneamento"}, Direction: models.Expense, Label: "Água & Esgoto"},
		{Keywords: []string{"internet", "wifi", "vivo", "claro"}, Direction: models.Expense, Label: "Internet"},
		{Keywords: []string{"manutenção", "reparo", "pedreiro", "obra"}, Direction: models.Expense, Label: "Manutenção"},
		{Keywords: []string{"mercado", "compras", "fatura"}, Direction: models.Expense, Label: "Mercado/Compras"},
		{Keywords: []string{"aluguel", "condominio"}, Direction: models.Expense, Label: "Aluguel (Pago)"},
		{Keywords: []string{"gás", "gas"}, Direction: models.Expense, Label: "Gás"},
		{Keywords: []string{"divida", "dívida", "pagamento"}, Direction: models.Expense, Label: "Dívidas/Empréstimos"},

		{Keywords: []string{"morador", "hospedagem", "aluguel"}, Direction: models.Income, Label: "Receita Aluguéis"},
		{Keywords: []string{"xusha", "sequela", "confuso", "cobolas", "gugu", "bixo", "damião", "edvaldo", "tanimado", "khdinho", "judas", "terraplana"}, Direction: models.Income, Label: "Receita Aluguéis"},
		{Keywords: []string{"aporte", "transferencia"}, Direction: models.Income, Label: "Aportes/Outros"},
	}
}

type ruleFile struct {
	Fallback string     `yaml:"fallback"`
	Rules    []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Label     string   `yaml:"label"`
	Direction string   `yaml:"direction"`
	Keywords  []string `yaml:"keywords"`
}

// Load reads a YAML rule file and returns a categorizer over it.
//
//	fallback: Outros
//	rules:
//	  - label: Internet
//	    direction: saida
//	    keywords: [internet, wifi]
func Load(path string) (*Categorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML rule data.
func Parse(data []byte) (*Categorizer, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules file has no rules")
	}

	rules := make([]Rule, 0, len(f.Rules))
	for i, spec := range f.Rules {
		if strings.TrimSpace(spec.Label) == "" {
			return nil, fmt.Errorf("rule %d: missing label", i+1)
		}
		if len(spec.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i+1, spec.Label)
		}
		dir, err := ParseDirection(spec.Direction)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, spec.Label, err)
		}
		rules = append(rules, Rule{Keywords: spec.Keywords, Direction: dir, Label: spec.Label})
	}
	return New(rules, f.Fallback), nil
}

// ParseDirection accepts the Portuguese sheet labels and their English names.
func ParseDirection(s string) (models.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada", "income", "in":
		return models.Income, nil
	case "saida", "saída", "expense", "out":
		return models.Expense, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}
