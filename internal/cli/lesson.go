package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/wire"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Record lesson outcomes",
}

var lessonRecordCmd = &cobra.Command{
	Use:   "record [lesson-id]",
	Short: "Record one lesson's completion date, note or availability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		outcome := primary.LessonOutcome{LessonID: args[0], CompletedOn: date}
		if cmd.Flags().Changed("note") {
			note, _ := cmd.Flags().GetString("note")
			outcome.Note = &note
		}
		if cmd.Flags().Changed("available") {
			available, _ := cmd.Flags().GetBool("available")
			outcome.Available = &available
		}
		return wire.LessonAdapter(os.Stdout).Record(NewContext(), outcome)
	},
}

var lessonBulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Apply a batch of lesson outcomes from a YAML or JSON file",
	Long: `Apply a batch of lesson outcomes. The file holds a list of entries:

  - lesson_id: LES-0001
    completed_on: 2026-02-01
  - lesson_id: LES-0002
    available: false
    note: public holiday

Entries are grouped by contract; a failing entry does not stop the rest.
Use "-" to read from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		outcomes, err := readOutcomes(path)
		if err != nil {
			return err
		}
		return wire.LessonAdapter(os.Stdout).Bulk(NewContext(), outcomes)
	},
}

// outcomeEntry is one entry of a bulk file. JSON input parses as YAML.
type outcomeEntry struct {
	LessonID    string  `yaml:"lesson_id"`
	CompletedOn string  `yaml:"completed_on"`
	Note        *string `yaml:"note"`
	Available   *bool   `yaml:"available"`
}

func readOutcomes(path string) ([]primary.LessonOutcome, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseOutcomes(data)
}

func parseOutcomes(data []byte) ([]primary.LessonOutcome, error) {
	var entries []outcomeEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse outcomes: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no outcomes in file")
	}
	out := make([]primary.LessonOutcome, len(entries))
	for i, e := range entries {
		out[i] = primary.LessonOutcome{
			LessonID:    e.LessonID,
			CompletedOn: e.CompletedOn,
			Note:        e.Note,
			Available:   e.Available,
		}
	}
	return out, nil
}

func init() {
	lessonRecordCmd.Flags().String("date", "", "Completion date (YYYY-MM-DD); empty clears it")
	lessonRecordCmd.Flags().String("note", "", "Lesson note")
	lessonRecordCmd.Flags().Bool("available", true, "Whether the lesson counts toward completion")

	lessonBulkCmd.Flags().StringP("file", "f", "", "YAML or JSON file of outcomes")
	_ = lessonBulkCmd.MarkFlagRequired("file")

	lessonCmd.AddCommand(lessonRecordCmd, lessonBulkCmd)
}

// LessonCmd returns the lesson command
func LessonCmd() *cobra.Command {
	return lessonCmd
}
