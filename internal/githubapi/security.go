package githubapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const (
	codeScanningPathSegmentConstant    = "code-scanning"
	defaultSetupPathSegmentConstant    = "default-setup"
	securityProbeFailedMessageConstant = "security feature probe failed"
)

// FeatureState is the tri-state of a repository security feature.
type FeatureState string

// Feature states.
const (
	FeatureEnabled  FeatureState = FeatureState("enabled")
	FeatureDisabled FeatureState = FeatureState("disabled")
	FeatureUnknown  FeatureState = FeatureState("unknown")
)

// SecurityFeatures reports the security features of a repository.
type SecurityFeatures struct {
	VulnerabilityAlerts          FeatureState
	SecretScanning               FeatureState
	SecretScanningPushProtection FeatureState
	DependabotSecurityUpdates    FeatureState
	CodeScanningDefaultSetup     FeatureState
}

// FetchSecurityFeatures probes each security feature of the resolved repository.
// A probe that fails leaves its feature FeatureUnknown and is logged at debug level.
func (client *Client) FetchSecurityFeatures(requestContext context.Context, details RepositoryDetails) SecurityFeatures {
	features := SecurityFeatures{
		VulnerabilityAlerts:          FeatureUnknown,
		SecretScanning:               statusFeatureState(details.SecretScanningStatus),
		SecretScanningPushProtection: statusFeatureState(details.SecretScanningPushProtectionStatus),
		DependabotSecurityUpdates:    statusFeatureState(details.DependabotSecurityUpdatesStatus),
		CodeScanningDefaultSetup:     FeatureUnknown,
	}

	reference := details.Reference
	alertsEnabled, response, alertsError := client.rest.Repositories.GetVulnerabilityAlerts(requestContext, reference.Owner, reference.Name)
	if alertsError != nil {
		client.logProbeFailure(newOperationError(vulnerabilityAlertsOperationNameConstant, response, alertsError))
	} else {
		features.VulnerabilityAlerts = booleanFeatureState(alertsEnabled)
	}

	codeScanningState, codeScanningError := client.fetchCodeScanningDefaultSetup(requestContext, reference)
	if codeScanningError != nil {
		client.logProbeFailure(codeScanningError)
	} else {
		features.CodeScanningDefaultSetup = codeScanningState
	}

	return features
}

func (client *Client) fetchCodeScanningDefaultSetup(requestContext context.Context, reference RepositoryReference) (FeatureState, error) {
	request, requestError := client.newAPIRequest(requestContext, http.MethodGet, reposPathSegmentConstant, reference.Owner, reference.Name, codeScanningPathSegmentConstant, defaultSetupPathSegmentConstant)
	if requestError != nil {
		return FeatureUnknown, OperationError{Operation: codeScanningSetupOperationNameConstant, Cause: requestError}
	}

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return FeatureUnknown, OperationError{Operation: codeScanningSetupOperationNameConstant, Cause: responseError}
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return FeatureUnknown, OperationError{Operation: codeScanningSetupOperationNameConstant, StatusCode: response.StatusCode, Cause: unexpectedStatusError(response.StatusCode)}
	}

	var result struct {
		State string `json:"state"`
	}
	if decodeError := json.NewDecoder(response.Body).Decode(&result); decodeError != nil {
		return FeatureUnknown, ResponseDecodingError{Operation: codeScanningSetupOperationNameConstant, Cause: decodeError}
	}

	return booleanFeatureState(result.State == StateConfigured), nil
}

func (client *Client) logProbeFailure(probeError error) {
	client.logger.Debug(securityProbeFailedMessageConstant, zap.Error(probeError))
}

func statusFeatureState(status string) FeatureState {
	switch status {
	case StatusEnabled:
		return FeatureEnabled
	case StatusDisabled:
		return FeatureDisabled
	default:
		return FeatureUnknown
	}
}

func booleanFeatureState(enabled bool) FeatureState {
	if enabled {
		return FeatureEnabled
	}
	return FeatureDisabled
}
