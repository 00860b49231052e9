package criteria

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// STARequirements is the parsed sta_requirements column
type STARequirements struct {
	RequiresSTAInPlan *bool `json:"requires_sta_in_plan"`
}

// ParseSTARequirements decodes sta_requirements. Some rows hold the object as a JSON-encoded
// string, so one level of string encoding is unwrapped. Empty and null values return nil.
func ParseSTARequirements(raw []byte) (*STARequirements, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("failed to decode string-encoded sta_requirements: %w", err)
		}
		return ParseSTARequirements([]byte(inner))
	}

	var reqs STARequirements
	if err := json.Unmarshal(raw, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode sta_requirements: %w", err)
	}
	return &reqs, nil
}

// STACriterion checks requires_sta_in_plan against the guest's sta_in_plan answer.
//
// Validity:
//   - Only NDIS packages with a declared requires_sta_in_plan are checked
//   - An unanswered sta_in_plan counts as not in plan
//   - Malformed sta_requirements are logged and treated as absent
type STACriterion struct {
	logger *zap.Logger
}

// NewSTACriterion creates a new STACriterion
func NewSTACriterion(logger *zap.Logger) *STACriterion {
	return &STACriterion{logger: logger}
}

func (c *STACriterion) Name() string {
	return "STA"
}

func (c *STACriterion) IsPackageEligible(criteria *model.EligibilityCriteria, pkg *model.Package) bool {
	if pkg.Funder != model.FunderNDIS {
		return true
	}

	reqs, err := ParseSTARequirements(pkg.Requirement.STARequirements)
	if err != nil {
		c.logger.Warn("Ignoring malformed sta_requirements",
			zap.String("package_id", pkg.ID),
			zap.String("package_code", pkg.PackageCode),
			zap.Error(err))
		return true
	}
	if reqs == nil {
		return true
	}

	return model.TriStateFromBool(reqs.RequiresSTAInPlan).Admits(criteria.STAInPlanValue())
}
