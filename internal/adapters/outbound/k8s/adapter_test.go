package k8s_test

import (
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/skillcoder/downscaler-controller/internal/adapters/outbound/k8s"
	"github.com/skillcoder/downscaler-controller/internal/logic/downscaler"
)

func ptr[T any](v T) *T {
	return &v
}

func newStack(namespace, name string, replicas int64) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": "zalando.org/v1",
			"kind":       "Stack",
			"metadata": map[string]any{
				"name":      name,
				"namespace": namespace,
				"annotations": map[string]any{
					downscaler.AnnotationUptime: "always",
				},
			},
			"spec": map[string]any{
				"replicas": replicas,
			},
		},
	}
}

func newAdapter(t *testing.T, objects []runtime.Object, stacks ...runtime.Object) (
	downscaler.Repository,
	*fake.Clientset,
	*dynamicfake.FakeDynamicClient,
) {
	t.Helper()

	clientset := fake.NewClientset(objects...)
	dynamicClient := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{
			k8s.StackGVR: "StackList",
		},
		stacks...,
	)

	return k8s.New(slog.Default(), clientset, dynamicClient), clientset, dynamicClient
}

func TestAdapter_ListPodsQuery(t *testing.T) {
	t.Parallel()

	repo, _, _ := newAdapter(t, []runtime.Object{
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:        "batch-1",
				Namespace:   "jobs",
				Annotations: map[string]string{downscaler.AnnotationForceUptime: "true"},
			},
			Status: corev1.PodStatus{Phase: corev1.PodRunning},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "web-1", Namespace: "default"},
			Status:     corev1.PodStatus{Phase: corev1.PodSucceeded},
		},
	})

	pods, err := repo.ListPodsQuery(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, pods, 2)

	byName := map[string]downscaler.Pod{}
	for _, p := range pods {
		byName[p.Name] = p
	}

	require.Equal(t, "Running", byName["batch-1"].Phase)
	require.Equal(t, "true", byName["batch-1"].Annotations[downscaler.AnnotationForceUptime])
	require.Equal(t, "Succeeded", byName["web-1"].Phase)

	scoped, err := repo.ListPodsQuery(t.Context(), "jobs")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
}

func TestAdapter_ListResourcesQuery(t *testing.T) {
	t.Parallel()

	created := metav1.NewTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	repo, _, _ := newAdapter(t,
		[]runtime.Object{
			&appsv1.Deployment{
				ObjectMeta: metav1.ObjectMeta{
					Name:              "api",
					Namespace:         "default",
					CreationTimestamp: created,
				},
				Spec: appsv1.DeploymentSpec{Replicas: ptr(int32(3))},
			},
			&appsv1.Deployment{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "api-v2",
					Namespace: "default",
					OwnerReferences: []metav1.OwnerReference{
						{APIVersion: "zalando.org/v1", Kind: "Stack", Name: "api-v2"},
					},
				},
			},
			&appsv1.StatefulSet{
				ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "default"},
				Spec:       appsv1.StatefulSetSpec{Replicas: ptr(int32(2))},
			},
			&batchv1.CronJob{
				ObjectMeta: metav1.ObjectMeta{Name: "report", Namespace: "default"},
				Spec:       batchv1.CronJobSpec{Suspend: ptr(true)},
			},
		},
		newStack("default", "api-v2", 4),
	)

	t.Run("deployments", func(t *testing.T) {
		t.Parallel()

		got, err := repo.ListResourcesQuery(t.Context(), downscaler.KindDeployment, "default")
		require.NoError(t, err)
		require.Len(t, got, 2)

		byName := map[string]downscaler.Resource{}
		for _, r := range got {
			byName[r.Name] = r
		}

		require.Equal(t, int32(3), byName["api"].Replicas)
		require.True(t, created.Time.Equal(byName["api"].CreationTimestamp))
		require.False(t, byName["api"].OwnedByStack)

		// unset replicas default to one
		require.Equal(t, int32(1), byName["api-v2"].Replicas)
		require.True(t, byName["api-v2"].OwnedByStack)
	})

	t.Run("statefulsets", func(t *testing.T) {
		t.Parallel()

		got, err := repo.ListResourcesQuery(t.Context(), downscaler.KindStatefulSet, "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, downscaler.KindStatefulSet, got[0].Kind)
		require.Equal(t, int32(2), got[0].Replicas)
	})

	t.Run("cronjobs", func(t *testing.T) {
		t.Parallel()

		got, err := repo.ListResourcesQuery(t.Context(), downscaler.KindCronJob, "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.True(t, got[0].Suspended)
	})

	t.Run("stacks", func(t *testing.T) {
		t.Parallel()

		got, err := repo.ListResourcesQuery(t.Context(), downscaler.KindStack, "default")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, downscaler.KindStack, got[0].Kind)
		require.Equal(t, int32(4), got[0].Replicas)
		require.Equal(t, "always", got[0].Annotations[downscaler.AnnotationUptime])
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		_, err := repo.ListResourcesQuery(t.Context(), downscaler.Kind("DaemonSet"), "")
		require.ErrorIs(t, err, k8s.ErrUnsupportedKind)
	})
}

func TestAdapter_ListResourcesQuery_StackReplicasOutOfRange(t *testing.T) {
	t.Parallel()

	repo, _, _ := newAdapter(t, nil,
		newStack("default", "huge", math.MaxInt32+1),
		newStack("default", "negative", -1),
		newStack("default", "web", 2),
	)

	got, err := repo.ListResourcesQuery(t.Context(), downscaler.KindStack, "default")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "web", got[0].Name)
	require.Equal(t, int32(2), got[0].Replicas)
}

func TestAdapter_GetNamespaceQuery(t *testing.T) {
	t.Parallel()

	repo, _, _ := newAdapter(t, []runtime.Object{
		&corev1.Namespace{
			ObjectMeta: metav1.ObjectMeta{
				Name:        "staging",
				Annotations: map[string]string{downscaler.AnnotationDowntime: "Sat-Sun 00:00-24:00 UTC"},
			},
		},
	})

	ns, err := repo.GetNamespaceQuery(t.Context(), "staging")
	require.NoError(t, err)
	require.Equal(t, "staging", ns.Name)
	require.Equal(t, "Sat-Sun 00:00-24:00 UTC", ns.Annotations[downscaler.AnnotationDowntime])

	_, err = repo.GetNamespaceQuery(t.Context(), "missing")
	require.Error(t, err)

	var target interface{ IsNotFound() }
	require.True(t, errors.As(err, &target))
}

func TestAdapter_PatchResourceCommand(t *testing.T) {
	t.Parallel()

	t.Run("scale down deployment records original replicas", func(t *testing.T) {
		t.Parallel()

		repo, clientset, _ := newAdapter(t, []runtime.Object{
			&appsv1.Deployment{
				ObjectMeta: metav1.ObjectMeta{Name: "api", Namespace: "default"},
				Spec:       appsv1.DeploymentSpec{Replicas: ptr(int32(5))},
			},
		})

		list, err := repo.ListResourcesQuery(t.Context(), downscaler.KindDeployment, "default")
		require.NoError(t, err)
		require.Len(t, list, 1)

		err = repo.PatchResourceCommand(t.Context(), list[0], downscaler.Mutation{
			Replicas: ptr(int32(0)),
			Annotations: map[string]*string{
				downscaler.AnnotationOriginalReplicas: ptr("5"),
			},
		})
		require.NoError(t, err)

		got, err := clientset.AppsV1().Deployments("default").Get(t.Context(), "api", metav1.GetOptions{})
		require.NoError(t, err)
		require.Equal(t, int32(0), *got.Spec.Replicas)
		require.Equal(t, "5", got.Annotations[downscaler.AnnotationOriginalReplicas])
	})

	t.Run("unsuspend cronjob removes original status", func(t *testing.T) {
		t.Parallel()

		repo, clientset, _ := newAdapter(t, []runtime.Object{
			&batchv1.CronJob{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "report",
					Namespace: "default",
					Annotations: map[string]string{
						downscaler.AnnotationOriginalCronStatus: "false",
						"keep":                                  "me",
					},
				},
				Spec: batchv1.CronJobSpec{Suspend: ptr(true)},
			},
		})

		list, err := repo.ListResourcesQuery(t.Context(), downscaler.KindCronJob, "default")
		require.NoError(t, err)
		require.Len(t, list, 1)

		err = repo.PatchResourceCommand(t.Context(), list[0], downscaler.Mutation{
			Suspend: ptr(false),
			Annotations: map[string]*string{
				downscaler.AnnotationOriginalCronStatus: nil,
			},
		})
		require.NoError(t, err)

		got, err := clientset.BatchV1().CronJobs("default").Get(t.Context(), "report", metav1.GetOptions{})
		require.NoError(t, err)
		require.False(t, *got.Spec.Suspend)
		require.NotContains(t, got.Annotations, downscaler.AnnotationOriginalCronStatus)
		require.Equal(t, "me", got.Annotations["keep"])
	})

	t.Run("scale up stack", func(t *testing.T) {
		t.Parallel()

		repo, _, dynamicClient := newAdapter(t, nil, newStack("default", "api-v2", 0))

		list, err := repo.ListResourcesQuery(t.Context(), downscaler.KindStack, "default")
		require.NoError(t, err)
		require.Len(t, list, 1)

		err = repo.PatchResourceCommand(t.Context(), list[0], downscaler.Mutation{
			Replicas: ptr(int32(3)),
		})
		require.NoError(t, err)

		got, err := dynamicClient.Resource(k8s.StackGVR).Namespace("default").Get(t.Context(), "api-v2", metav1.GetOptions{})
		require.NoError(t, err)

		replicas, found, err := unstructured.NestedInt64(got.Object, "spec", "replicas")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, int64(3), replicas)
	})

	t.Run("missing resource maps to not found", func(t *testing.T) {
		t.Parallel()

		repo, _, _ := newAdapter(t, nil)

		err := repo.PatchResourceCommand(t.Context(), downscaler.Resource{
			Kind:      downscaler.KindStatefulSet,
			Namespace: "default",
			Name:      "gone",
		}, downscaler.Mutation{Replicas: ptr(int32(0))})
		require.Error(t, err)

		var target interface{ IsNotFound() }
		require.True(t, errors.As(err, &target))
	})
}
