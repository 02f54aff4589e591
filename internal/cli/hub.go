package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
)

// hubFlags describes the entity a command centres on.
type hubFlags struct {
	id       string
	source   string
	kind     string
	label    string
	organism string
}

// bind registers --id, --source, --kind, --label and --organism on cmd.
func (f *hubFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.id, "id", "", "hub identifier (e.g. 8854)")
	fl.StringVar(&f.source, "source", "", "hub data source name or BridgeDb system code (e.g. EntrezGene, L)")
	fl.StringVar(&f.kind, "kind", "", "hub datanode kind (e.g. GeneProduct, Metabolite)")
	fl.StringVar(&f.label, "label", "", "hub display label")
	fl.StringVar(&f.organism, "organism", "", "hub organism (default from config, then Homo sapiens)")

	_ = cmd.RegisterFlagCompletionFunc("source", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return dataSourceNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return kindNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// given reports whether any hub flag was set.
func (f *hubFlags) given() bool {
	return f.id != "" || f.source != "" || f.kind != "" || f.label != ""
}

// entity builds and validates the hub. organism fills in when --organism
// was not given.
func (f *hubFlags) entity(organism string) (entity.Entity, error) {
	if f.source == "" {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput,
			"--source is required (one of %s)", strings.Join(dataSourceNames(), ", "))
	}
	ds, ok := entity.ParseDataSource(f.source)
	if !ok {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput,
			"unknown data source %q (one of %s)", f.source, strings.Join(dataSourceNames(), ", "))
	}

	kind := entity.Unknown
	if f.kind != "" {
		if kind, ok = entity.ParseKind(f.kind); !ok {
			return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput,
				"unknown kind %q (one of %s)", f.kind, strings.Join(kindNames(), ", "))
		}
	}

	hub := entity.Entity{
		ID:         strings.TrimSpace(f.id),
		DataSource: ds,
		Kind:       kind,
		Label:      f.label,
		Organism:   f.organism,
	}
	if hub.Organism == "" {
		hub.Organism = organism
	}
	if err := hub.Validate(); err != nil {
		return entity.Entity{}, err
	}
	return hub, nil
}

func dataSourceNames() []string {
	all := entity.DataSources()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.String()
	}
	return names
}

func kindNames() []string {
	all := entity.Kinds()
	names := make([]string, len(all))
	for i, k := range all {
		names[i] = k.String()
	}
	return names
}
