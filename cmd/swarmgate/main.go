package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/router"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

var (
	configFile string
	jsonFlag   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swarmgate",
		Short: "Task routing decision engine for AI-assisted execution",
		Long: `Swarmgate decides how an AI execution layer should carry out a task:
which provider and model to use, whether to run a single agent, a parallel
swarm, or a multi-provider consensus vote, and at what estimated cost.
It makes no network calls and invokes no providers; it only decides.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to routing config file")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "emit JSON instead of text")

	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(costCmd())
	rootCmd.AddCommand(routesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func routeCmd() *cobra.Command {
	var description string
	var subTasks int
	var providersFlag []string
	var budget float64
	var preferQuality bool
	var preferSpeed bool
	var debugFlag bool

	cmd := &cobra.Command{
		Use:   "route [title]",
		Short: "Decide provider, model, and execution mode for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			r := router.NewRouter(cfg, router.WithDebug(debugFlag))
			result := r.Route(args[0], description, router.RouteOptions{
				SubTaskCount:       subTasks,
				AvailableProviders: parseProviders(providersFlag),
				Budget:             budget,
				PreferQuality:      preferQuality,
				PreferSpeed:        preferSpeed,
			})

			if jsonFlag {
				return printJSON(result)
			}

			fmt.Printf("Mode:     %s\n", result.Mode)
			fmt.Printf("Provider: %s\n", result.Provider)
			fmt.Printf("Model:    %s\n", result.Model)
			if result.Swarm != nil {
				fmt.Printf("Swarm:    strategy=%s max_agents=%d\n", result.Swarm.Strategy, result.Swarm.MaxAgents)
			}
			if result.Consensus != nil {
				fmt.Printf("Voting:   %s across %s\n", result.Consensus.Strategy, joinProviders(result.Consensus.Providers))
			}
			fmt.Printf("Reason:   %s\n", result.Reason)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().IntVar(&subTasks, "subtasks", 0, "number of stated sub-tasks")
	cmd.Flags().StringSliceVar(&providersFlag, "providers", nil, "available providers (default: all)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "budget ceiling in USD (0 disables)")
	cmd.Flags().BoolVar(&preferQuality, "prefer-quality", false, "prefer quality over cost")
	cmd.Flags().BoolVar(&preferSpeed, "prefer-speed", false, "prefer speed over thoroughness")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "log routing internals")

	return cmd
}

func classifyCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "classify [title]",
		Short: "Classify a task into a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			taskType := router.NewClassifier(cfg).Classify(args[0], description)
			if jsonFlag {
				return printJSON(map[string]string{
					"task_type": string(taskType),
					"label":     taskType.Label(),
				})
			}
			fmt.Printf("%s (%s)\n", taskType, taskType.Label())
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var description string
	var subTasks int

	cmd := &cobra.Command{
		Use:   "analyze [title]",
		Short: "Score task complexity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			analysis := router.NewAnalyzer(cfg).Analyze(args[0], description, subTasks)
			if jsonFlag {
				return printJSON(analysis)
			}

			fmt.Printf("Score:  %.1f (%s)\n", analysis.Score, analysis.Level)
			fmt.Printf("Words:  %d  Technical: %d  Complex keywords: %d  Sub-tasks: %d\n",
				analysis.Factors.TextLength, analysis.Factors.TechnicalTerms,
				analysis.Factors.KeywordDensity, analysis.Factors.SubTaskCount)
			fmt.Printf("Suggests: mode=%s model=%s", analysis.Recommendation.Mode, analysis.Recommendation.SuggestedModel)
			if analysis.Recommendation.SuggestedAgents > 0 {
				fmt.Printf(" agents=%d", analysis.Recommendation.SuggestedAgents)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().IntVar(&subTasks, "subtasks", 0, "number of stated sub-tasks")
	return cmd
}

func costCmd() *cobra.Command {
	var providerFlag string
	var inputTokens int
	var outputTokens int
	var budget float64
	var providersFlag []string

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Estimate cost, or find the cheapest provider within a budget",
		Long: `With --provider, prices the given token split on that provider.
With --budget, searches --providers (default: all) for the cheapest one
whose estimate fits, assuming output at 1.5x the input tokens.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			estimator := router.NewEstimator(cfg)

			if budget > 0 {
				candidates := parseProviders(providersFlag)
				if candidates == nil {
					candidates = cfg.KnownProviders()
				}
				p, ok := estimator.CheapestWithinBudget(budget, inputTokens, candidates)
				if !ok {
					fmt.Printf("No provider fits a $%.4f budget for %d input tokens.\n", budget, inputTokens)
					return nil
				}
				est := estimator.Estimate(p, inputTokens, inputTokens*3/2)
				if jsonFlag {
					return printJSON(est)
				}
				fmt.Printf("%s fits: estimated $%.4f\n", p, est.EstimatedCost)
				return nil
			}

			if providerFlag == "" {
				return fmt.Errorf("either --provider or --budget is required")
			}
			est := estimator.Estimate(schema.Provider(providerFlag), inputTokens, outputTokens)
			if jsonFlag {
				return printJSON(est)
			}
			fmt.Printf("%s: estimated $%.4f for %d tokens\n", est.Provider, est.EstimatedCost, est.EstimatedTokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFlag, "provider", "", "provider to price")
	cmd.Flags().IntVar(&inputTokens, "input-tokens", 0, "input token count")
	cmd.Flags().IntVar(&outputTokens, "output-tokens", 0, "output token count")
	cmd.Flags().Float64Var(&budget, "budget", 0, "budget ceiling in USD for the cheapest-provider search")
	cmd.Flags().StringSliceVar(&providersFlag, "providers", nil, "candidate providers for the budget search")

	return cmd
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show the default routing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tPROVIDER\tMODEL\tMODE\tTRIGGERS")

			for _, route := range cfg.Defaults {
				triggers := "-"
				for _, rule := range cfg.Categories {
					if rule.Type == route.Type {
						triggers = strings.Join(rule.Triggers, ", ")
						break
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					route.Type, route.Provider, route.Model, route.Mode, triggers)
			}

			return w.Flush()
		},
	}
}

func loadConfig() (*config.RoutingConfig, error) {
	if configFile == "" {
		return config.DefaultRoutingConfig(), nil
	}
	cfg, err := config.LoadRoutingConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load routing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseProviders(names []string) []schema.Provider {
	if names == nil {
		return nil
	}
	providers := make([]schema.Provider, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			providers = append(providers, schema.Provider(name))
		}
	}
	return providers
}

func joinProviders(providers []schema.Provider) string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
