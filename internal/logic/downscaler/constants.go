package downscaler

const (
	annotationPrefix = "downscaler/"

	AnnotationOriginalReplicas   = annotationPrefix + "original-replicas"
	AnnotationOriginalCronStatus = annotationPrefix + "original-cron-status"
	AnnotationDowntimeCronStatus = annotationPrefix + "downtime-cron-status"
	AnnotationForceUptime        = annotationPrefix + "force-uptime"
	AnnotationUpscalePeriod      = annotationPrefix + "upscale-period"
	AnnotationDownscalePeriod    = annotationPrefix + "downscale-period"
	AnnotationExclude            = annotationPrefix + "exclude"
	AnnotationUptime             = annotationPrefix + "uptime"
	AnnotationDowntime           = annotationPrefix + "downtime"
	AnnotationDowntimeReplicas   = annotationPrefix + "downtime-replicas"

	// SpecNever never matches; SpecForced always matches and is only produced internally.
	SpecNever  = "never"
	SpecForced = "forced"
	SpecAlways = "always"

	specIgnored = "ignored"

	PodPhaseSucceeded = "Succeeded"
	PodPhaseFailed    = "Failed"

	// StackAPIVersion and StackKind identify the aggregate kind whose Deployments are
	// scaled through the Stack itself.
	StackAPIVersion = "zalando.org/v1"
	StackKind       = "Stack"

	defaultDowntimeSuspend = true
	uptimeSuspend          = false
)
