package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/profile"
	"github.com/abhisek/prepcoach/internal/questionbank"
)

var drillCmd = &cobra.Command{
	Use:   "drill <skill>",
	Short: "Drill a single skill",
	Long: `Start a skill drill. Any skill works; --list shows the catalog the
built-in question bank knows best.`,
	Example: `  prepcoach drill Docker
  prepcoach drill "API Design" --source fallback
  prepcoach drill --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			printCatalog()
			return nil
		}
		if len(args) == 0 {
			return errors.New("skill is required (see --list)")
		}
		d := profile.NewDrill(args[0])
		title := "Skill drill"
		if id, ok := questionbank.CategoryOf(d.Primary()); ok {
			title += " · " + id
		}
		return runPractice(cmd, "drill", title, d)
	},
}

func init() {
	drillCmd.Flags().BoolP("list", "l", false, "List skill categories and exit")
}

func printCatalog() {
	fmt.Printf("%-10s  %-22s  %s\n", "ID", "Category", "Skills")
	fmt.Println(strings.Repeat("─", 90))

	var n int
	for _, c := range questionbank.Categories() {
		fmt.Printf("%-10s  %-22s  %s\n", c.ID, c.Name, strings.Join(c.Skills, ", "))
		n += len(c.Skills)
	}
	fmt.Printf("\n%d skills\n", n)
}
