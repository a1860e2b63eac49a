package kubernetes

import k8sclient "k8s.io/client-go/kubernetes"

// KubeClientProvider creates clientsets for named kubeconfig contexts. Tests
// inject a fake clientset without touching the filesystem.
type KubeClientProvider interface {
	// ClientsetForContext returns a clientset and the resolved ClusterInfo.
	// An empty contextName selects the kubeconfig's current context.
	ClientsetForContext(contextName string) (k8sclient.Interface, ClusterInfo, error)
}

// DefaultKubeClientProvider loads kubeconfig from $KUBECONFIG or ~/.kube/config.
type DefaultKubeClientProvider struct{}

func NewDefaultKubeClientProvider() *DefaultKubeClientProvider {
	return &DefaultKubeClientProvider{}
}

// ClientsetForContext implements KubeClientProvider.
func (p *DefaultKubeClientProvider) ClientsetForContext(contextName string) (k8sclient.Interface, ClusterInfo, error) {
	return LoadClientset(KubeconfigPath(), contextName)
}
