package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/config"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/providers/aws/common"
	kube "github.com/pankaj-dahiya-devops/cloud-optimizer/internal/providers/kubernetes"
)

// DoctorResult is the structured output of copt doctor. Config, store and
// policy decide overall health; AWS and Kubernetes are only needed by the
// collect commands and are reported for information.
type DoctorResult struct {
	Config struct {
		Path   string `json:"path"`
		Loaded bool   `json:"loaded"`
		Error  string `json:"error,omitempty"`
	} `json:"config"`

	Store struct {
		Driver    string `json:"driver,omitempty"`
		Reachable bool   `json:"reachable"`
		Resources int    `json:"resources"`
		Error     string `json:"error,omitempty"`
	} `json:"store"`

	Policy struct {
		Path    string   `json:"path,omitempty"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Kubernetes struct {
		KubeconfigOK bool   `json:"kubeconfig_ok"`
		Context      string `json:"context,omitempty"`
		APIReachable bool   `json:"api_reachable"`
		Error        string `json:"error,omitempty"`
	} `json:"kubernetes"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "doctor",
		Short:       "Run environment diagnostics",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")
			result, err := runDoctor(
				cmd.Context(),
				a,
				common.NewDefaultAWSClientProvider(),
				kube.NewDefaultKubeClientProvider(),
				cmd.OutOrStdout(),
				cmd.ErrOrStderr(),
				format,
				profile,
			)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text follows the report.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("profile", "", "AWS profile to check (default: config aws.default_profile, then the credential chain)")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result. The returned error covers only
// rendering failures; callers inspect result.OverallHealthy.
func runDoctor(
	ctx context.Context,
	a *app,
	awsProvider common.AWSClientProvider,
	kubeProvider kube.KubeClientProvider,
	w, logOut io.Writer,
	format, profile string,
) (DoctorResult, error) {
	result := collectDoctorResult(ctx, a, awsProvider, kubeProvider, logOut, profile)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}
	return result, nil
}

// collectDoctorResult runs every check. Checks that depend on a loaded
// config are skipped when loading fails.
func collectDoctorResult(
	ctx context.Context,
	a *app,
	awsProvider common.AWSClientProvider,
	kubeProvider kube.KubeClientProvider,
	logOut io.Writer,
	profile string,
) DoctorResult {
	var result DoctorResult

	result.Config.Path = a.flags.configPath
	if result.Config.Path == "" {
		result.Config.Path = config.DefaultConfigPath()
	}
	if err := a.load(logOut); err != nil {
		result.Config.Error = err.Error()
		return result
	}
	result.Config.Loaded = true

	checkStore(ctx, a, &result)
	checkPolicy(a, &result)

	// AWS: credentials -> STS account ID -> region discovery.
	if profile == "" {
		profile = a.cfg.AWS.DefaultProfile
	}
	result.AWS.Profile = profile
	profileCfg, err := awsProvider.LoadProfile(ctx, profile, a.cfg.AWS.DefaultRegion)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
		if _, err := awsProvider.GetActiveRegions(ctx, profileCfg); err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.RegionsOK = true
		}
	}

	// Kubernetes: kubeconfig load -> context -> API reachability probe.
	clientset, info, err := kubeProvider.ClientsetForContext(a.cfg.Kubernetes.Context)
	if err != nil {
		result.Kubernetes.Error = err.Error()
	} else {
		result.Kubernetes.KubeconfigOK = true
		result.Kubernetes.Context = info.ContextName
		if _, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{Limit: 1}); err != nil {
			result.Kubernetes.Error = err.Error()
		} else {
			result.Kubernetes.APIReachable = true
		}
	}

	result.OverallHealthy = result.Config.Loaded &&
		result.Store.Reachable &&
		(!result.Policy.Present || result.Policy.Valid)
	return result
}

func checkStore(ctx context.Context, a *app, result *DoctorResult) {
	result.Store.Driver = a.cfg.Store.Driver
	s, err := a.openStore(ctx)
	if err != nil {
		result.Store.Error = err.Error()
		return
	}
	defer s.Close()

	if err := s.Ping(ctx); err != nil {
		result.Store.Error = err.Error()
		return
	}
	n, err := s.Count(ctx)
	if err != nil {
		result.Store.Error = err.Error()
		return
	}
	result.Store.Reachable = true
	result.Store.Resources = n
}

// checkPolicy validates the configured policy file; having none is fine.
func checkPolicy(a *app, result *DoctorResult) {
	path := a.cfg.Policy.Path
	if path == "" {
		return
	}
	result.Policy.Path = path
	result.Policy.Present = true

	if _, err := loadAndValidatePolicy(path); err != nil {
		result.Policy.Errors = []string{err.Error()}
		return
	}
	result.Policy.Valid = true
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintln(w, "\nConfig:")
	if !result.Config.Loaded {
		doctorPrint(w, "Config file", "FAIL", result.Config.Error)
		return
	}
	doctorPrint(w, "Config file", "OK", result.Config.Path)

	fmt.Fprintf(w, "\nStore (%s):\n", result.Store.Driver)
	if result.Store.Reachable {
		doctorPrint(w, "Reachable", "OK", fmt.Sprintf("%d resources", result.Store.Resources))
	} else {
		doctorPrint(w, "Reachable", "FAIL", result.Store.Error)
	}

	fmt.Fprintln(w, "\nPolicy:")
	switch {
	case !result.Policy.Present:
		doctorPrint(w, "Policy file", "Not configured (optional)", "")
	case result.Policy.Valid:
		doctorPrint(w, "Policy file", "OK", result.Policy.Path)
	default:
		for _, e := range result.Policy.Errors {
			doctorPrint(w, "Policy file", "FAIL", e)
		}
	}

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s, optional):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS (optional):")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "Regions API", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "Account: "+result.AWS.AccountID)
		if result.AWS.RegionsOK {
			doctorPrint(w, "Regions API", "OK", "")
		} else {
			doctorPrint(w, "Regions API", "FAIL", result.AWS.Error)
		}
	}

	fmt.Fprintln(w, "\nKubernetes (optional):")
	if !result.Kubernetes.KubeconfigOK {
		doctorPrint(w, "Kubeconfig", "FAIL", result.Kubernetes.Error)
		doctorPrint(w, "API Reachable", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Kubeconfig", "OK", result.Kubernetes.Context)
		if result.Kubernetes.APIReachable {
			doctorPrint(w, "API Reachable", "OK", "")
		} else {
			doctorPrint(w, "API Reachable", "FAIL", result.Kubernetes.Error)
		}
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
