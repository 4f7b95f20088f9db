package patterns

import (
	"math/rand"

	"github.com/medaudit/audit-trail-api/internal/model"
)

// AnomalyPatterns gates how often generated traffic degrades into error
// or security events. The rates are fields so tests can pin them to 0 or 1.
type AnomalyPatterns struct {
	ErrorRate    float64
	SecurityRate float64

	ErrorTypes     []model.EventType
	SecurityEvents []model.EventType
}

func DefaultAnomalyPatterns() *AnomalyPatterns {
	return &AnomalyPatterns{
		ErrorRate:    0.03,
		SecurityRate: 0.005,
		ErrorTypes: []model.EventType{
			model.EventNetworkError,
			model.EventDeviceError,
			model.EventAccessDenied,
			model.EventPerformanceAlert,
		},
		SecurityEvents: []model.EventType{
			model.EventSecurityAlert,
			model.EventUnauthorizedAccess,
			model.EventSuspiciousActivity,
			model.EventUserFailedLogin,
		},
	}
}

func (a *AnomalyPatterns) ShouldError(rng *rand.Rand) bool {
	return rng.Float64() < a.ErrorRate
}

func (a *AnomalyPatterns) ShouldSecurityEvent(rng *rand.Rand) bool {
	return rng.Float64() < a.SecurityRate
}

func (a *AnomalyPatterns) RandomErrorType(rng *rand.Rand) model.EventType {
	return a.ErrorTypes[rng.Intn(len(a.ErrorTypes))]
}

func (a *AnomalyPatterns) RandomSecurityEvent(rng *rand.Rand) model.EventType {
	return a.SecurityEvents[rng.Intn(len(a.SecurityEvents))]
}
