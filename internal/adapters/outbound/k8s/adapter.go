package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/skillcoder/downscaler-controller/internal/logic/downscaler"
)

// StackGVR is the resource of the zalando.org Stack kind.
var StackGVR = schema.GroupVersionResource{
	Group:    "zalando.org",
	Version:  "v1",
	Resource: "stacks",
}

type adapter struct {
	logger        *slog.Logger
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
}

// New creates a new K8s adapter.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
) downscaler.Repository {
	return &adapter{
		logger:        logger,
		clientset:     clientset,
		dynamicClient: dynamicClient,
	}
}

var _ downscaler.Repository = (*adapter)(nil)

func (a *adapter) ListPodsQuery(
	ctx context.Context,
	namespace string,
) ([]downscaler.Pod, error) {
	podList, err := a.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pods: %w", err)
	}

	pods := make([]downscaler.Pod, 0, len(podList.Items))
	for i := range podList.Items {
		pods = append(pods, toDomainPod(&podList.Items[i]))
	}

	return pods, nil
}

func (a *adapter) ListResourcesQuery(
	ctx context.Context,
	kind downscaler.Kind,
	namespace string,
) ([]downscaler.Resource, error) {
	switch kind {
	case downscaler.KindDeployment:
		list, err := a.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("list deployments: %w", err)
		}

		out := make([]downscaler.Resource, 0, len(list.Items))
		for i := range list.Items {
			out = append(out, toDomainDeployment(&list.Items[i]))
		}

		return out, nil
	case downscaler.KindStatefulSet:
		list, err := a.clientset.AppsV1().StatefulSets(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("list statefulsets: %w", err)
		}

		out := make([]downscaler.Resource, 0, len(list.Items))
		for i := range list.Items {
			out = append(out, toDomainStatefulSet(&list.Items[i]))
		}

		return out, nil
	case downscaler.KindCronJob:
		list, err := a.clientset.BatchV1().CronJobs(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("list cronjobs: %w", err)
		}

		out := make([]downscaler.Resource, 0, len(list.Items))
		for i := range list.Items {
			out = append(out, toDomainCronJob(&list.Items[i]))
		}

		return out, nil
	case downscaler.KindStack:
		return a.listStacks(ctx, namespace)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
}

func (a *adapter) listStacks(ctx context.Context, namespace string) ([]downscaler.Resource, error) {
	list, err := a.dynamicClient.Resource(StackGVR).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list stacks: %w", err)
	}

	out := make([]downscaler.Resource, 0, len(list.Items))

	for i := range list.Items {
		res, err := toDomainStack(&list.Items[i])
		if err != nil {
			// one malformed stack must not hide the others
			a.logger.WarnContext(ctx, "skipping malformed stack",
				"name", list.Items[i].GetName(),
				"namespace", list.Items[i].GetNamespace(),
				"reason", err,
			)

			continue
		}

		out = append(out, res)
	}

	return out, nil
}

func (a *adapter) GetNamespaceQuery(
	ctx context.Context,
	name string,
) (*downscaler.Namespace, error) {
	ns, err := a.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("get namespace: %w", errNotFound)
		}

		return nil, fmt.Errorf("get namespace: %w", err)
	}

	return toDomainNamespace(ns), nil
}

func (a *adapter) PatchResourceCommand(
	ctx context.Context,
	res downscaler.Resource,
	mutation downscaler.Mutation,
) error {
	patchBytes, err := json.Marshal(mutationPatch(res, mutation))
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}

	a.logger.DebugContext(ctx, "patching resource",
		"kind", res.Kind,
		"name", res.Name,
		"namespace", res.Namespace,
		"patch", string(patchBytes),
	)

	switch res.Kind {
	case downscaler.KindDeployment:
		_, err = a.clientset.AppsV1().Deployments(res.Namespace).Patch(
			ctx, res.Name, types.MergePatchType, patchBytes, metav1.PatchOptions{},
		)
	case downscaler.KindStatefulSet:
		_, err = a.clientset.AppsV1().StatefulSets(res.Namespace).Patch(
			ctx, res.Name, types.MergePatchType, patchBytes, metav1.PatchOptions{},
		)
	case downscaler.KindCronJob:
		_, err = a.clientset.BatchV1().CronJobs(res.Namespace).Patch(
			ctx, res.Name, types.MergePatchType, patchBytes, metav1.PatchOptions{},
		)
	case downscaler.KindStack:
		_, err = a.dynamicClient.Resource(StackGVR).Namespace(res.Namespace).Patch(
			ctx, res.Name, types.MergePatchType, patchBytes, metav1.PatchOptions{},
		)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, res.Kind)
	}

	if err != nil {
		switch {
		case apierrors.IsNotFound(err):
			return fmt.Errorf("patch %s: %w", res.Kind, errNotFound)
		case apierrors.IsConflict(err):
			return fmt.Errorf("patch %s: %w", res.Kind, errConflict)
		}

		return fmt.Errorf("patch %s: %w", res.Kind, err)
	}

	return nil
}
