package vellum

import (
	"fmt"
)

// ModelValidationRule flags models absent from the capability tables
type ModelValidationRule struct {
	registry *CapabilityRegistry
}

func (r *ModelValidationRule) Name() string {
	return "Model Validation"
}

func (r *ModelValidationRule) Check(vendor VendorID, req *GenerateRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if _, err := r.registry.GetModelCapability(vendor, req.Model); err != nil {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeModelUnknown,
			Category: "model",
			Field:    "model",
			Value:    req.Model,
			Message:  fmt.Sprintf("Model %s not found in %s capabilities (capabilities may be outdated)", req.Model, vendor),
			Severity: SeverityInfo,
		})
	}

	return warnings
}

// ReasoningValidationRule flags reasoning toggles that have no effect, and
// the o-series shared completion limit.
type ReasoningValidationRule struct{}

func (r *ReasoningValidationRule) Name() string {
	return "Reasoning Validation"
}

func (r *ReasoningValidationRule) Check(vendor VendorID, req *GenerateRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Params == nil || !req.Params.GetReasoning(false) {
		return warnings
	}

	if !IsReasoningModel(req.Model) {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeReasoningUnsupported,
			Category: "reasoning",
			Field:    "reasoning",
			Value:    true,
			Message:  fmt.Sprintf("Model %s is not reasoning-capable; the reasoning toggle has no effect on its budget", req.Model),
			Severity: SeverityInfo,
		})
		return warnings
	}

	if req.Params.ReasoningEffort != nil {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeSharedTokenLimit,
			Category: "reasoning",
			Field:    "reasoning_effort",
			Value:    *req.Params.ReasoningEffort,
			Message:  "Reasoning and output tokens share one completion limit on o-series models",
			Severity: SeverityInfo,
		})
	}

	return warnings
}

// ParameterValidationRule checks sampling parameter ranges
type ParameterValidationRule struct{}

func (r *ParameterValidationRule) Name() string {
	return "Parameter Validation"
}

func (r *ParameterValidationRule) Check(vendor VendorID, req *GenerateRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Params == nil {
		return warnings
	}

	if t := req.Params.Temperature; t != nil && (*t < 0.0 || *t > 2.0) {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeTemperatureOutOfRange,
			Category: "parameter",
			Field:    "temperature",
			Value:    *t,
			Message:  fmt.Sprintf("Temperature %f is outside the accepted range [0.0, 2.0]", *t),
			Severity: SeverityError,
		})
	}

	if p := req.Params.TopP; p != nil && (*p < 0.0 || *p > 1.0) {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeTopPOutOfRange,
			Category: "parameter",
			Field:    "top_p",
			Value:    *p,
			Message:  fmt.Sprintf("top_p %f is outside the accepted range [0.0, 1.0]", *p),
			Severity: SeverityError,
		})
	}

	return warnings
}

// BudgetValidationRule flags requested ceilings above the model's documented
// output capacity. The budget calculator clamps these silently; a caller-set
// max_tokens does not get clamped, so it is worth a warning.
type BudgetValidationRule struct{}

func (r *BudgetValidationRule) Name() string {
	return "Budget Validation"
}

func (r *BudgetValidationRule) Check(vendor VendorID, req *GenerateRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Params == nil || req.Params.MaxTokens == nil {
		return warnings
	}

	ceiling := MaxOutputCapacity(req.Model)
	if ceiling > 0 && *req.Params.MaxTokens > ceiling {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeBudgetAboveCeiling,
			Category: "parameter",
			Field:    "max_tokens",
			Value:    *req.Params.MaxTokens,
			Message:  fmt.Sprintf("max_tokens %d exceeds the documented output capacity %d of %s", *req.Params.MaxTokens, ceiling, req.Model),
			Severity: SeverityWarning,
		})
	}

	return warnings
}
