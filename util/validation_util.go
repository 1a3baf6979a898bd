// util/validation_util.go

package util

import (
	"fmt"
	"strings"

	pdp_model "github.com/dev-mohitbeniwal/permy/pdp/model"
)

// MaxResourcesPerCheck bounds the number of references in one request.
const MaxResourcesPerCheck = 100

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

// ValidateCheckRequest trims the request in place and rejects the ones the
// engine cannot answer. Unknown operators are accepted; the engine treats
// them as and.
func (v *ValidationUtil) ValidateCheckRequest(req *pdp_model.CheckRequest) error {
	req.SubjectID = strings.TrimSpace(req.SubjectID)
	if req.SubjectID == "" {
		return fmt.Errorf("subject_id cannot be empty")
	}

	resources := req.Resources[:0]
	for _, ref := range req.Resources {
		if ref = strings.TrimSpace(ref); ref != "" {
			resources = append(resources, ref)
		}
	}
	req.Resources = resources

	if len(req.Resources) == 0 {
		return fmt.Errorf("at least one resource is required")
	}
	if len(req.Resources) > MaxResourcesPerCheck {
		return fmt.Errorf("at most %d resources can be checked at once", MaxResourcesPerCheck)
	}
	return nil
}
