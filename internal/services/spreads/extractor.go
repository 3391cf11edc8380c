package spreads

import (
	"fmt"

	"FinSpread/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ExtractContracts flattens the provider's expiration -> strike -> contracts nesting
// in encounter order. It does not filter or re-sort.
func ExtractContracts(m models.ExpirationMap) ([]models.Contract, error) {
	if m == nil {
		return nil, &models.StructuralError{Path: "expDateMap", Reason: "missing"}
	}
	out := make([]models.Contract, 0, len(m)*8)
	for _, exp := range m {
		key, err := models.ParseExpirationKey(exp.Key)
		if err != nil {
			return nil, &models.StructuralError{Path: exp.Key, Reason: "malformed expiration key", Err: err}
		}
		if exp.Strikes == nil {
			return nil, &models.StructuralError{Path: exp.Key, Reason: "missing strike map"}
		}
		for _, strike := range exp.Strikes {
			path := exp.Key + "/" + strike.Key
			if _, err := models.ParseStrikeKey(strike.Key); err != nil {
				return nil, &models.StructuralError{Path: path, Reason: "malformed strike key", Err: err}
			}
			if strike.Contracts == nil {
				return nil, &models.StructuralError{Path: path, Reason: "missing contract list"}
			}
			for i, rec := range strike.Contracts {
				if rec == nil {
					return nil, &models.StructuralError{Path: fmt.Sprintf("%s[%d]", path, i), Reason: "null contract"}
				}
				if err := validate.Struct(rec); err != nil {
					return nil, &models.StructuralError{Path: fmt.Sprintf("%s[%d]", path, i), Reason: "malformed contract", Err: err}
				}
				out = append(out, models.NewContract(rec, key.Date))
			}
		}
	}
	return out, nil
}
