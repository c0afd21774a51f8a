package downscaler

import "strings"

// ForcedUptime scans pods for an active force-uptime marker. Pods in a terminal
// phase are skipped. The first matching pod is returned for logging.
func ForcedUptime(pods []Pod) (bool, *Pod) {
	for i := range pods {
		if pods[i].Phase == PodPhaseSucceeded || pods[i].Phase == PodPhaseFailed {
			continue
		}

		if strings.EqualFold(pods[i].Annotations[AnnotationForceUptime], "true") {
			return true, &pods[i]
		}
	}

	return false, nil
}
