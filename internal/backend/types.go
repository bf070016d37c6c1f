package backend

// Request and response shapes for the assistant backend. Field names follow
// the backend's JSON contract.

// ChatPayload is the request for the generic conversational agent.
type ChatPayload struct {
	Content  string `json:"content"`
	ThreadID string `json:"threadId,omitempty"`
}

// ChatResponse is the generic conversational agent's reply.
type ChatResponse struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// StandardsInfo optionally carries pre-extracted standards context.
type StandardsInfo struct {
	ExtractedInfo string `json:"extracted_info,omitempty"`
}

// UseCasePayload is the journaling (use case) request.
type UseCasePayload struct {
	Scenario      string         `json:"scenario"`
	StandardsInfo *StandardsInfo `json:"standards_info,omitempty"`
}

// UseCaseResponse bundles the scenario with the generated guidance.
type UseCaseResponse struct {
	Scenario           string `json:"scenario"`
	AccountingGuidance string `json:"accounting_guidance"`
}

// TransactionPayload is the detailed transaction analysis request.
type TransactionPayload struct {
	TransactionDetails string         `json:"transaction_details"`
	AdditionalInfo     map[string]any `json:"additional_info,omitempty"`
}

// RetrievalStats describes the retrieval context the analyzer consulted.
type RetrievalStats struct {
	ChunkCount    int      `json:"chunk_count"`
	ChunksSummary []string `json:"chunks_summary"`
}

// TransactionResponse is the detailed analyzer response. It is passed through
// to the detail panel untouched, so it keeps every field the backend sends.
type TransactionResponse struct {
	Analysis            string          `json:"analysis"`
	IdentifiedStandards []string        `json:"identified_standards,omitempty"`
	RetrievalStats      *RetrievalStats `json:"retrieval_stats,omitempty"`
	CorrectStandard     string          `json:"correct_standard,omitempty"`
	ApplicableStandards []string        `json:"applicable_standards,omitempty"`
	StandardRationale   string          `json:"standard_rationale,omitempty"`
	TransactionSummary  string          `json:"transaction_summary,omitempty"`
}

// SimpleTransactionPayload is the simplified analysis request.
type SimpleTransactionPayload struct {
	TransactionDetails any    `json:"transaction_details"`
	AdditionalContext  string `json:"additional_context,omitempty"`
}

// SimpleTransactionResponse is the simplified compliance verdict.
type SimpleTransactionResponse struct {
	Analysis  string `json:"analysis"`
	Compliant bool   `json:"compliant"`
	Rationale string `json:"rationale"`
}

// ExtractionPayload is the standards extraction request.
type ExtractionPayload struct {
	DocumentText string `json:"document_text"`
	Query        string `json:"query,omitempty"`
}

// ExtractionResponse carries extracted standards information.
type ExtractionResponse struct {
	ExtractedInfo string `json:"extracted_info"`
	DocumentID    string `json:"document_id,omitempty"`
}

// EnhancementPayload is the standards enhancement request.
type EnhancementPayload struct {
	StandardID                   string `json:"standard_id"`
	TriggerScenario              string `json:"trigger_scenario"`
	IncludeCrossStandardAnalysis bool   `json:"include_cross_standard_analysis,omitempty"`
}

// EnhancementResponse is the standards enhancement result.
type EnhancementResponse struct {
	StandardID            string         `json:"standard_id"`
	Review                string         `json:"review"`
	Proposal              string         `json:"proposal"`
	Validation            string         `json:"validation"`
	OriginalText          string         `json:"original_text"`
	ProposedText          string         `json:"proposed_text"`
	CrossStandardAnalysis string         `json:"cross_standard_analysis"`
	CompatibilityMatrix   map[string]any `json:"compatibility_matrix"`
}

// ProductDesignPayload is the product design request. Required fields are
// validated by the gateway before the request is sent.
type ProductDesignPayload struct {
	ProductObjective   string   `json:"product_objective"`
	RiskAppetite       string   `json:"risk_appetite"`
	InvestmentTenor    string   `json:"investment_tenor"`
	TargetAudience     string   `json:"target_audience"`
	AssetFocus         string   `json:"asset_focus,omitempty"`
	DesiredFeatures    []string `json:"desired_features"`
	SpecificExclusions []string `json:"specific_exclusions"`
	AdditionalNotes    string   `json:"additional_notes,omitempty"`
}

// ProductDesignResponse is the product design result.
type ProductDesignResponse struct {
	SuggestedProductConceptName       string         `json:"suggested_product_concept_name"`
	RecommendedIslamicContracts       []string       `json:"recommended_islamic_contracts"`
	OriginalRequirements              map[string]any `json:"original_requirements,omitempty"`
	RationaleForContractSelection     string         `json:"rationale_for_contract_selection"`
	ProposedProductStructureOverview  string         `json:"proposed_product_structure_overview"`
	KeyFASConsiderations              map[string]any `json:"key_aaoifi_fas_considerations,omitempty"`
	ShariahComplianceCheckpoints      []string       `json:"shariah_compliance_checkpoints"`
	PotentialAreasOfConcern           []string       `json:"potential_areas_of_concern"`
	PotentialRisksAndMitigationNotes  string         `json:"potential_risks_and_mitigation_notes"`
	NextStepsForDetailedDesign        []string       `json:"next_steps_for_detailed_design"`
}

// CompliancePayload is the compliance verification request.
type CompliancePayload struct {
	DocumentContent string `json:"document_content"`
	DocumentName    string `json:"document_name,omitempty"`
}

// ComplianceFinding is one row of the structured compliance report.
type ComplianceFinding struct {
	Standard    string `json:"standard"`
	Requirement string `json:"requirement"`
	Status      string `json:"status"`
	StatusCode  string `json:"status_code"` // compliant, partial, missing
	Comments    string `json:"comments"`
}

// ComplianceResponse is the compliance verification result.
type ComplianceResponse struct {
	DocumentName     string              `json:"document_name"`
	Timestamp        string              `json:"timestamp"`
	ComplianceReport string              `json:"compliance_report"`
	StructuredReport []ComplianceFinding `json:"structured_report"`
	Document         string              `json:"document"`
}
