package kubernetes

import (
	"fmt"
	"os"
	"path/filepath"

	k8sclient "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// KubeconfigPath returns $KUBECONFIG when set, otherwise ~/.kube/config.
func KubeconfigPath() string {
	if path := os.Getenv("KUBECONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}

// ResolveContext reads the kubeconfig at path and returns the effective
// context and its API server URL without building a client.
func ResolveContext(kubeconfigPath, contextName string) (ClusterInfo, error) {
	cfg := deferredConfig(kubeconfigPath, contextName)
	raw, err := cfg.RawConfig()
	if err != nil {
		return ClusterInfo{}, fmt.Errorf("load kubeconfig %q: %w", kubeconfigPath, err)
	}

	info := ClusterInfo{ContextName: raw.CurrentContext}
	if contextName != "" {
		info.ContextName = contextName
	}
	kctx, ok := raw.Contexts[info.ContextName]
	if !ok {
		return ClusterInfo{}, fmt.Errorf("kubeconfig %q has no context %q", kubeconfigPath, info.ContextName)
	}
	if cluster, ok := raw.Clusters[kctx.Cluster]; ok {
		info.Server = cluster.Server
	}
	return info, nil
}

// LoadClientset builds a clientset from the kubeconfig at path targeting
// contextName (empty means current context).
func LoadClientset(kubeconfigPath, contextName string) (k8sclient.Interface, ClusterInfo, error) {
	info, err := ResolveContext(kubeconfigPath, contextName)
	if err != nil {
		return nil, ClusterInfo{}, err
	}

	restCfg, err := deferredConfig(kubeconfigPath, contextName).ClientConfig()
	if err != nil {
		return nil, ClusterInfo{}, fmt.Errorf("build REST config for context %q: %w", info.ContextName, err)
	}

	clientset, err := k8sclient.NewForConfig(restCfg)
	if err != nil {
		return nil, ClusterInfo{}, fmt.Errorf("build clientset for context %q: %w", info.ContextName, err)
	}
	return clientset, info, nil
}

func deferredConfig(kubeconfigPath, contextName string) clientcmd.ClientConfig {
	rules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfigPath}
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)
}
