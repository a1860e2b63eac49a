package kubernetes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sclient "k8s.io/client-go/kubernetes"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/ingest"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/rules"
)

// CollectNodes turns every node of the cluster into a compute resource.
//
// Utilization is the share of allocatable CPU and memory requested by the
// node's active pods. Monthly cost comes from the policy pricing table keyed
// by instance type; nodes without a known type, provider or price are
// reported in Skipped. The clientset is an interface so tests can inject a
// fake one.
func CollectNodes(ctx context.Context, clientset k8sclient.Interface, info ClusterInfo, cfg *policy.PolicyConfig) (*Inventory, error) {
	nodeList, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("collect nodes: %w", err)
	}

	usage, err := collectNodeUsage(ctx, clientset, nodeList.Items)
	if err != nil {
		return nil, fmt.Errorf("collect pods: %w", err)
	}

	inv := &Inventory{Cluster: info}
	for _, n := range nodeList.Items {
		res, reason := nodeResource(n, usage[n.Name], info, cfg)
		if reason != "" {
			inv.Skipped = append(inv.Skipped, ingest.Skipped{Name: resourceName(info, n.Name), Reason: reason})
			continue
		}
		inv.Resources = append(inv.Resources, res)
	}

	sort.Slice(inv.Resources, func(i, j int) bool { return inv.Resources[i].Name < inv.Resources[j].Name })
	return inv, nil
}

// collectNodeUsage sums container requests of scheduled, non-terminated pods
// per node.
func collectNodeUsage(ctx context.Context, clientset k8sclient.Interface, nodes []corev1.Node) (map[string]NodeUsage, error) {
	usage := make(map[string]NodeUsage, len(nodes))
	for _, n := range nodes {
		usage[n.Name] = NodeUsage{
			AllocatableCPUMillis: n.Status.Allocatable.Cpu().MilliValue(),
			AllocatableMemory:    n.Status.Allocatable.Memory().Value(),
		}
	}

	podList, err := clientset.CoreV1().Pods("").List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	for _, p := range podList.Items {
		if p.Spec.NodeName == "" || p.Status.Phase == corev1.PodSucceeded || p.Status.Phase == corev1.PodFailed {
			continue
		}
		u, ok := usage[p.Spec.NodeName]
		if !ok {
			continue
		}
		for _, c := range p.Spec.Containers {
			u.RequestedCPUMillis += c.Resources.Requests.Cpu().MilliValue()
			u.RequestedMemory += c.Resources.Requests.Memory().Value()
		}
		usage[p.Spec.NodeName] = u
	}
	return usage, nil
}

// nodeResource maps a node to a Resource, or returns a skip reason.
func nodeResource(n corev1.Node, u NodeUsage, info ClusterInfo, cfg *policy.PolicyConfig) (models.Resource, string) {
	instanceType := firstLabel(n.Labels, LabelInstanceType, LabelInstanceTypeLegacy)
	if instanceType == "" {
		return models.Resource{}, ReasonNoInstanceType
	}
	provider, ok := providerFromID(n.Spec.ProviderID)
	if !ok {
		return models.Resource{}, ReasonNoProvider
	}
	price, ok := policy.LookupPrice(instanceType, cfg)
	if !ok {
		return models.Resource{}, ReasonNoPrice + " " + instanceType
	}

	return models.Resource{
		Name:              resourceName(info, n.Name),
		ResourceType:      models.ResourceCompute,
		Provider:          provider,
		InstanceType:      instanceType,
		Region:            firstLabel(n.Labels, LabelRegion, LabelRegionLegacy),
		Size:              fmt.Sprintf("%s CPU / %s", n.Status.Allocatable.Cpu(), n.Status.Allocatable.Memory()),
		CPUUtilization:    ratio(u.RequestedCPUMillis, u.AllocatableCPUMillis),
		MemoryUtilization: ratio(u.RequestedMemory, u.AllocatableMemory),
		MonthlyCost:       price,
	}, ""
}

// providerFromID detects the cloud from node.Spec.ProviderID, e.g.
// "aws:///us-east-1a/i-0abc" or "gce://project/zone/name".
func providerFromID(id string) (models.CloudProvider, bool) {
	switch {
	case strings.HasPrefix(id, "aws://"):
		return models.ProviderAWS, true
	case strings.HasPrefix(id, "azure://"):
		return models.ProviderAzure, true
	case strings.HasPrefix(id, "gce://"):
		return models.ProviderGCP, true
	}
	return "", false
}

// ratio returns requested/allocatable as a percentage capped at 100, or nil
// when the node reports no allocatable capacity.
func ratio(requested, allocatable int64) *float64 {
	if allocatable <= 0 {
		return nil
	}
	pct := float64(requested) / float64(allocatable) * 100
	if pct > 100 {
		pct = 100
	}
	return models.Float(rules.Round2(pct))
}

func firstLabel(labels map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := labels[k]; v != "" {
			return v
		}
	}
	return ""
}

// resourceName qualifies a node name with its context so nodes from
// different clusters do not collide in the store.
func resourceName(info ClusterInfo, node string) string {
	if info.ContextName == "" {
		return node
	}
	return info.ContextName + "/" + node
}
