package plangen

import "github.com/vinpuli/archscribe/pkg/risk"

// MigrationStrategyKind is the closed migration-strategy set.
type MigrationStrategyKind string

const (
	ExpandContract  MigrationStrategyKind = "expand_contract"
	StagedMigration MigrationStrategyKind = "staged_migration"
	DirectMigration MigrationStrategyKind = "direct_migration"
)

// MigrationPhase is one step of a migration strategy, with
// tool-specific command hints when the migration tool is recognized.
type MigrationPhase struct {
	Name     string   `json:"name"`
	Commands []string `json:"commands"`
}

// MigrationStrategy is migration-strategy Change Plan
// Artifact.
type MigrationStrategy struct {
	Strategy MigrationStrategyKind `json:"strategy"`
	Phases   []MigrationPhase      `json:"phases"`
}

// toolCommands is the fixed per-tool command-hint table for the
// recognized migration tools.
var toolCommands = map[string]struct{ generate, apply string }{
	"alembic":   {"alembic revision --autogenerate -m \"<message>\"", "alembic upgrade head"},
	"django":    {"python manage.py makemigrations", "python manage.py migrate"},
	"prisma":    {"npx prisma migrate dev --name <name>", "npx prisma migrate deploy"},
	"flyway":    {"flyway info", "flyway migrate"},
	"liquibase": {"liquibase status", "liquibase update"},
}

// GenerateMigrationStrategy selects a strategy by
// (risk level, breaking count, schema-change count, deployment
// environment) and emits phases with tool-specific command hints when
// migrationTool is recognized, else generic placeholders.
func GenerateMigrationStrategy(level risk.Level, breakingCount, schemaChangeCount int, deploymentEnv, migrationTool string) MigrationStrategy {
	strategy := selectMigrationStrategy(level, breakingCount, schemaChangeCount, deploymentEnv)

	generate, apply := "run the migration tool's generate/create-revision command", "run the migration tool's apply/migrate command"

	if cmds, ok := toolCommands[migrationTool]; ok {
		generate, apply = cmds.generate, cmds.apply
	}

	switch strategy {
	case ExpandContract:
		return MigrationStrategy{Strategy: strategy, Phases: []MigrationPhase{
			{Name: "expand: add new schema alongside the old", Commands: []string{generate, apply}},
			{Name: "migrate: backfill and dual-write", Commands: []string{"deploy application code that writes both shapes"}},
			{Name: "contract: remove the old schema", Commands: []string{generate, apply}},
		}}
	case StagedMigration:
		return MigrationStrategy{Strategy: strategy, Phases: []MigrationPhase{
			{Name: "stage 1: apply to a canary environment", Commands: []string{generate, apply}},
			{Name: "stage 2: apply to " + deploymentEnv, Commands: []string{apply}},
		}}
	default:
		return MigrationStrategy{Strategy: strategy, Phases: []MigrationPhase{
			{Name: "apply directly to " + deploymentEnv, Commands: []string{generate, apply}},
		}}
	}
}

func selectMigrationStrategy(level risk.Level, breakingCount, schemaChangeCount int, deploymentEnv string) MigrationStrategyKind {
	switch {
	case level == risk.Critical || breakingCount > 0 || schemaChangeCount > 3:
		return ExpandContract
	case level == risk.High || schemaChangeCount > 0:
		return StagedMigration
	case deploymentEnv == "production":
		// production deploys never skip a staged rollout, even for an
		// otherwise low-risk schema-free change.
		return StagedMigration
	default:
		return DirectMigration
	}
}
