package datagrid

var defaultTableDefinitions = []TableDefinition{
	{
		Code: "analytics.table.websites",
		Name: "Websites",
		NameLocalized: map[string]string{
			"es": "Sitios web",
		},
		Description: "Tracked websites with traffic totals",
		DescriptionLocalized: map[string]string{
			"es": "Sitios monitorizados con totales de tráfico",
		},
		Category: "websites",
		Columns: Columns{
			{Field: "name", Label: "Name", LabelLocalized: map[string]string{"es": "Nombre"}, Type: TypeString, Searchable: true},
			{Field: "domain", Label: "Domain", LabelLocalized: map[string]string{"es": "Dominio"}, Type: TypeString, Searchable: true},
			{Field: "visitors", Label: "Visitors", LabelLocalized: map[string]string{"es": "Visitantes"}, Type: TypeNumber, Format: "number"},
			{Field: "pageviews", Label: "Views", LabelLocalized: map[string]string{"es": "Vistas"}, Type: TypeNumber, Format: "compact"},
			{Field: "bounce_rate", Label: "Bounce rate", Type: TypeNumber, Format: "percent"},
			{Field: "visit_duration", Label: "Visit duration", Type: TypeNumber, Format: "duration"},
			{Field: "created_at", Label: "Created", LabelLocalized: map[string]string{"es": "Creado"}, Type: TypeDate, Format: "date"},
		},
		DefaultSort: SortState{Field: "visitors", Direction: SortDesc},
	},
	{
		Code: "analytics.table.pages",
		Name: "Pages",
		NameLocalized: map[string]string{
			"es": "Páginas",
		},
		Description: "Most viewed paths",
		Category:    "metrics",
		Columns: Columns{
			{Field: "path", Label: "Path", Type: TypeString, Searchable: true},
			{Field: "title", Label: "Title", Type: TypeString, Searchable: true},
			{Field: "visitors", Label: "Visitors", Type: TypeNumber, Format: "number"},
			{Field: "pageviews", Label: "Views", Type: TypeNumber, Format: "number"},
		},
		DefaultSort: SortState{Field: "visitors", Direction: SortDesc},
	},
	{
		Code:        "analytics.table.referrers",
		Name:        "Referrers",
		Description: "Traffic sources",
		Category:    "metrics",
		Columns: Columns{
			{Field: "referrer", Label: "Referrer", Type: TypeString, Searchable: true},
			{Field: "visitors", Label: "Visitors", Type: TypeNumber, Format: "number"},
			{Field: "share", Label: "Share", Type: TypeNumber, Format: "percent"},
		},
		DefaultSort: SortState{Field: "visitors", Direction: SortDesc},
	},
	{
		Code:        "analytics.table.countries",
		Name:        "Countries",
		Description: "Visitors by country",
		Category:    "metrics",
		Columns: Columns{
			{Field: "country", Label: "Country", Type: TypeString, Searchable: true},
			{Field: "code", Label: "Code", Type: TypeString, Searchable: true},
			{Field: "visitors", Label: "Visitors", Type: TypeNumber, Format: "number"},
		},
		DefaultSort: SortState{Field: "visitors", Direction: SortDesc},
	},
	{
		Code:        "analytics.table.browsers",
		Name:        "Browsers",
		Description: "Visitors by browser",
		Category:    "metrics",
		Columns: Columns{
			{Field: "browser", Label: "Browser", Type: TypeString, Searchable: true},
			{Field: "visitors", Label: "Visitors", Type: TypeNumber, Format: "number"},
			{Field: "last_seen", Label: "Last seen", Type: TypeDate, Format: "date"},
		},
		DefaultSort: SortState{Field: "visitors", Direction: SortDesc},
	},
}

// DefaultTableDefinitions returns the built-in analytics tables.
func DefaultTableDefinitions() []TableDefinition {
	out := make([]TableDefinition, len(defaultTableDefinitions))
	copy(out, defaultTableDefinitions)
	return out
}

// DefaultSources returns the demo record sources keyed by table code.
func DefaultSources() map[string]RecordSource {
	return map[string]RecordSource{
		"analytics.table.websites":  DemoWebsitesSource{},
		"analytics.table.pages":     DemoMetricSource{Metric: "url"},
		"analytics.table.referrers": DemoMetricSource{Metric: "referrer"},
		"analytics.table.countries": DemoMetricSource{Metric: "country"},
		"analytics.table.browsers":  DemoMetricSource{Metric: "browser"},
	}
}
