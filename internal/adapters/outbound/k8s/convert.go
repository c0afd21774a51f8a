package k8s

import (
	"fmt"
	"math"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/skillcoder/downscaler-controller/internal/logic/downscaler"
)

// defaultReplicas is what the API server assumes for an unset spec.replicas.
const defaultReplicas = 1

func toDomainPod(pod *corev1.Pod) downscaler.Pod {
	return downscaler.Pod{
		Name:        pod.Name,
		Namespace:   pod.Namespace,
		Phase:       string(pod.Status.Phase),
		Annotations: pod.Annotations,
	}
}

func toDomainNamespace(ns *corev1.Namespace) *downscaler.Namespace {
	return &downscaler.Namespace{
		Name:        ns.Name,
		Annotations: ns.Annotations,
	}
}

func toDomainDeployment(d *appsv1.Deployment) downscaler.Resource {
	res := fromObjectMeta(downscaler.KindDeployment, &d.ObjectMeta)
	res.Replicas = replicasOrDefault(d.Spec.Replicas)
	res.OwnedByStack = ownedByStack(d.OwnerReferences)

	return res
}

func toDomainStatefulSet(s *appsv1.StatefulSet) downscaler.Resource {
	res := fromObjectMeta(downscaler.KindStatefulSet, &s.ObjectMeta)
	res.Replicas = replicasOrDefault(s.Spec.Replicas)

	return res
}

func toDomainCronJob(c *batchv1.CronJob) downscaler.Resource {
	res := fromObjectMeta(downscaler.KindCronJob, &c.ObjectMeta)
	res.Suspended = c.Spec.Suspend != nil && *c.Spec.Suspend

	return res
}

func toDomainStack(u *unstructured.Unstructured) (downscaler.Resource, error) {
	res := downscaler.Resource{
		Kind:              downscaler.KindStack,
		Namespace:         u.GetNamespace(),
		Name:              u.GetName(),
		ResourceVersion:   u.GetResourceVersion(),
		CreationTimestamp: u.GetCreationTimestamp().Time,
		Annotations:       u.GetAnnotations(),
		Replicas:          defaultReplicas,
	}

	replicas, found, err := unstructured.NestedInt64(u.Object, "spec", "replicas")
	if err != nil {
		return downscaler.Resource{}, fmt.Errorf("stack %s/%s spec.replicas: %w", res.Namespace, res.Name, err)
	}

	if found {
		if replicas < 0 || replicas > math.MaxInt32 {
			return downscaler.Resource{}, fmt.Errorf("%w: stack %s/%s spec.replicas %d",
				ErrReplicasOutOfRange, res.Namespace, res.Name, replicas)
		}

		res.Replicas = int32(replicas)
	}

	return res, nil
}

func fromObjectMeta(kind downscaler.Kind, meta *metav1.ObjectMeta) downscaler.Resource {
	return downscaler.Resource{
		Kind:              kind,
		Namespace:         meta.Namespace,
		Name:              meta.Name,
		ResourceVersion:   meta.ResourceVersion,
		CreationTimestamp: meta.CreationTimestamp.Time,
		Annotations:       meta.Annotations,
	}
}

func replicasOrDefault(replicas *int32) int32 {
	if replicas == nil {
		return defaultReplicas
	}

	return *replicas
}

func ownedByStack(refs []metav1.OwnerReference) bool {
	for i := range refs {
		if refs[i].APIVersion == downscaler.StackAPIVersion && refs[i].Kind == downscaler.StackKind {
			return true
		}
	}

	return false
}

// mutationPatch builds a JSON merge patch for the mutation, guarded by the
// resource version the decision was based on.
func mutationPatch(res downscaler.Resource, m downscaler.Mutation) map[string]any {
	metadata := map[string]any{}

	if len(m.Annotations) > 0 {
		annotations := make(map[string]any, len(m.Annotations))

		for key, value := range m.Annotations {
			if value == nil {
				annotations[key] = nil

				continue
			}

			annotations[key] = *value
		}

		metadata["annotations"] = annotations
	}

	if res.ResourceVersion != "" {
		metadata["resourceVersion"] = res.ResourceVersion
	}

	spec := map[string]any{}

	if m.Replicas != nil {
		spec["replicas"] = *m.Replicas
	}

	if m.Suspend != nil {
		spec["suspend"] = *m.Suspend
	}

	patch := map[string]any{}

	if len(metadata) > 0 {
		patch["metadata"] = metadata
	}

	if len(spec) > 0 {
		patch["spec"] = spec
	}

	return patch
}
