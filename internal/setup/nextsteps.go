package setup

import (
	"fmt"
	"strings"

	"github.com/naikmubashir/setup-template/internal/config"
)

func nextSteps(cfg *config.Config, s *Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s is ready\n\n", s.Metadata.Name)
	b.WriteString("## Next steps\n\n")
	fmt.Fprintf(&b, "1. Make sure PostgreSQL is running and the database `%s` exists.\n", s.Database.Name)
	fmt.Fprintf(&b, "2. Apply the schema: `cd %s && npx prisma migrate dev`\n", cfg.BackendDir)
	fmt.Fprintf(&b, "3. Start the backend: `cd %s && %s run dev` (port %s)\n", cfg.BackendDir, cfg.PackageManager, cfg.Server.Port)
	fmt.Fprintf(&b, "4. Start the frontend: `cd %s && %s run dev`\n", cfg.FrontendDir, cfg.PackageManager)

	if s.ReinitSkipped {
		b.WriteString("\nExisting git history was kept; commit the changes yourself.\n")
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
