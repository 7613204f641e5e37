package prompt

import _ "embed"

// Template files embedded at compile time
var (
	//go:embed templates/extract-system.txt
	ExtractSystemTemplate string

	//go:embed templates/extract-user.txt
	ExtractUserTemplate string

	//go:embed templates/analysis-system.txt
	AnalysisSystemTemplate string

	//go:embed templates/clinical-impact.txt
	ClinicalImpactTemplate string

	//go:embed templates/more-stats.txt
	MoreStatsTemplate string
)
