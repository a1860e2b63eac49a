package kubernetes

import (
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/ingest"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// ClusterInfo identifies a Kubernetes cluster and the kubeconfig context used
// to connect to it.
type ClusterInfo struct {
	ContextName string
	Server      string
}

// Well-known node labels.
const (
	LabelInstanceType       = "node.kubernetes.io/instance-type"
	LabelInstanceTypeLegacy = "beta.kubernetes.io/instance-type"
	LabelRegion             = "topology.kubernetes.io/region"
	LabelRegionLegacy       = "failure-domain.beta.kubernetes.io/region"
)

// Skip reasons reported for nodes that cannot be turned into resources.
const (
	ReasonNoInstanceType = "node has no instance-type label"
	ReasonNoProvider     = "node provider ID is not aws, azure or gce"
	ReasonNoPrice        = "no price configured for instance type"
)

// NodeUsage is the scheduled load of a single node: the sum of the resource
// requests of its active pods against its allocatable capacity.
type NodeUsage struct {
	RequestedCPUMillis   int64
	AllocatableCPUMillis int64
	RequestedMemory      int64
	AllocatableMemory    int64
}

// Inventory is the outcome of collecting one cluster.
type Inventory struct {
	Cluster   ClusterInfo
	Resources []models.Resource
	Skipped   []ingest.Skipped
}
