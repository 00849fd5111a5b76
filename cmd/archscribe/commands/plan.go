package commands

import (
	"github.com/spf13/cobra"

	"github.com/vinpuli/archscribe/pkg/toolschema"
)

// NewPlanCommand builds the generate-change-plan command.
func NewPlanCommand() *cobra.Command {
	var (
		directoryPath            string
		objective                string
		ticketID                 string
		changeType               string
		baseBranch               string
		deploymentEnvironment    string
		environments             []string
		includeCommandExamples   bool
		includeRollbackPlan      bool
		includeDataSafetyChecks  bool
		includeExperimentSupport bool
		flagKeyPrefix            string
		migrationTool            string
		databaseEngine           string
		maxPhases                int
		of                       OutputFlags
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a rollout change plan from a git diff and its objective",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := map[string]any{
				"directory_path":              directoryPath,
				"objective":                   objective,
				"base_branch":                 baseBranch,
				"deployment_environment":      deploymentEnvironment,
				"include_command_examples":    includeCommandExamples,
				"include_rollback_plan":       includeRollbackPlan,
				"include_data_safety_checks":  includeDataSafetyChecks,
				"include_experiment_support":  includeExperimentSupport,
				"max_phases":                  maxPhases,
			}
			if ticketID != "" {
				args["ticket_id"] = ticketID
			}

			if changeType != "" {
				args["change_type"] = changeType
			}

			if len(environments) > 0 {
				args["environments"] = stringSliceArg(environments)
			}

			if flagKeyPrefix != "" {
				args["flag_key_prefix"] = flagKeyPrefix
			}

			if migrationTool != "" {
				args["migration_tool"] = migrationTool
			}

			if databaseEngine != "" {
				args["database_engine"] = databaseEngine
			}

			return runTool(cobraCmd.Context(), toolschema.NameGenerateChangePlan, args, &of)
		},
	}

	cmd.Flags().StringVar(&directoryPath, "directory-path", ".", "repository root")
	cmd.Flags().StringVar(&objective, "objective", "", "one-sentence description of the change's intent (required)")
	cmd.Flags().StringVar(&ticketID, "ticket-id", "", "tracker ticket id, embedded in the branch name and commits")
	cmd.Flags().StringVar(&changeType, "change-type", "", "one of breaking, hotfix, refactor, feature, fix, chore, exp")
	cmd.Flags().StringVar(&baseBranch, "base-branch", "main", "branch the change plan diffs against")
	cmd.Flags().StringVar(&deploymentEnvironment, "deployment-environment", "production", "target deployment environment")
	cmd.Flags().StringSliceVar(&environments, "environments", nil, "ordered rollout environments")
	cmd.Flags().BoolVar(&includeCommandExamples, "include-command-examples", true, "include example git/CLI commands in the procedure")
	cmd.Flags().BoolVar(&includeRollbackPlan, "include-rollback-plan", true, "include a rollback plan")
	cmd.Flags().BoolVar(&includeDataSafetyChecks, "include-data-safety-checks", true, "include a migration strategy")
	cmd.Flags().BoolVar(&includeExperimentSupport, "include-experiment-support", false, "include a feature-flag strategy")
	cmd.Flags().StringVar(&flagKeyPrefix, "flag-key-prefix", "", "prefix for generated feature-flag keys")
	cmd.Flags().StringVar(&migrationTool, "migration-tool", "", "migration tool name referenced by the migration strategy")
	cmd.Flags().StringVar(&databaseEngine, "database-engine", "", "database engine referenced by the migration strategy")
	cmd.Flags().IntVar(&maxPhases, "max-phases", 5, "cap on rollout phases")
	of.Register(cmd)

	return cmd
}
