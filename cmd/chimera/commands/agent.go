package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chimera/agent"
	"github.com/teranos/chimera/am"
	"github.com/teranos/chimera/display"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/sym"
)

// AgentCmd represents the agent (Ouroboros loop) command
var AgentCmd = &cobra.Command{
	Use:   "agent",
	Short: sym.Agent + " Run the Ouroboros agent",
	Long: sym.Agent + ` agent — Run the Ouroboros cognitive loop

The agent thinks in a 12-step cycle across three interleaved streams
(perception, action, simulation). Each run step advances all three streams
by one phase.

Examples:
  chimera agent run                      # One full 12-step cycle
  chimera agent run --steps 24           # Two cycles
  chimera agent run --input sky=blue     # Feed a stimulus on the first step
  chimera agent run --goal "learn"       # Set a goal before thinking
  chimera agent introspect               # Self-report after one cycle`,
}

var agentRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run think steps",
	Long:  "Run the agent for N think steps, optionally feeding a stimulus on the first step",
	RunE:  runAgentRun,
}

var agentIntrospectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Show the agent's self-report",
	Long:  "Run one full cognitive cycle and print the agent's introspection",
	RunE:  runAgentIntrospect,
}

var (
	agentSteps  int
	agentInputs []string
	agentGoal   string
)

func init() {
	agentRunCmd.Flags().IntVar(&agentSteps, "steps", 12, "Number of think steps to run")
	agentRunCmd.Flags().StringArrayVar(&agentInputs, "input", nil, "Stimulus as key=value (repeatable, fed on the first step)")
	agentRunCmd.Flags().StringVar(&agentGoal, "goal", "", "Goal to set before thinking")

	AgentCmd.AddCommand(agentRunCmd)
	AgentCmd.AddCommand(agentIntrospectCmd)
}

// parseStimulus turns repeated key=value flags into a perception input map.
func parseStimulus(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	input := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Newf("invalid stimulus %q (expected key=value)", pair)
		}
		input[key] = value
	}
	return input, nil
}

func newAgentFromConfig() (*agent.Agent, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return agent.New(cfg.Agent.Name), nil
}

func runAgentRun(cmd *cobra.Command, args []string) error {
	if agentSteps < 1 {
		return errors.New("--steps must be at least 1")
	}

	a, err := newAgentFromConfig()
	if err != nil {
		return err
	}
	if agentGoal != "" {
		a.SetGoal(agentGoal)
	}

	input, err := parseStimulus(agentInputs)
	if err != nil {
		return err
	}

	type stepRecord struct {
		Step   int              `json:"step"`
		Result agent.StepResult `json:"result"`
	}
	records := make([]stepRecord, 0, agentSteps)
	for i := 0; i < agentSteps; i++ {
		// Stimulus feeds perception on the first step only
		var stepInput map[string]any
		if i == 0 {
			stepInput = input
		}
		result := a.Think(stepInput)
		records = append(records, stepRecord{Step: a.StepCount, Result: result})
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"agent":         a.Name,
			"steps":         records,
			"introspection": a.Introspect(),
		})
	}

	pterm.DefaultSection.Printf("%s Agent %s — %d steps", sym.Agent, a.Name, agentSteps)
	rows := pterm.TableData{{"Step", "Stream 1", "Stream 2", "Stream 3", "Decision"}}
	for _, rec := range records {
		row := []string{fmt.Sprintf("%d", rec.Step)}
		var decision string
		for stream := 1; stream <= 3; stream++ {
			phase := rec.Result[stream]
			if phase == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, phase.Phase)
			if phase.Integrated != nil {
				decision = phase.Integrated.Decision
			}
		}
		row = append(row, decision)
		rows = append(rows, row)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	intro := a.Introspect()
	pterm.Info.Printf("emotion=%s valence=%.2f arousal=%.2f atoms=%d episodes=%d\n",
		intro.Emotion, intro.Valence, intro.Arousal, intro.AtomSpaceSize, intro.EpisodicMemory)
	return nil
}

func runAgentIntrospect(cmd *cobra.Command, args []string) error {
	a, err := newAgentFromConfig()
	if err != nil {
		return err
	}

	// A full cycle so every stream has visited every phase
	for i := 0; i < 12; i++ {
		a.Think(nil)
	}
	intro := a.Introspect()

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(intro)
	}

	pterm.DefaultSection.Printf("%s %s", sym.I, intro.Name)
	rows := pterm.TableData{
		{"Field", "Value"},
		{"Agent ID", intro.AgentID},
		{"Steps", fmt.Sprintf("%d", intro.StepCount)},
		{"Goal", intro.CurrentGoal},
		{"Emotion", intro.Emotion},
		{"Valence", fmt.Sprintf("%.3f", intro.Valence)},
		{"Arousal", fmt.Sprintf("%.3f", intro.Arousal)},
		{"AtomSpace size", fmt.Sprintf("%d", intro.AtomSpaceSize)},
		{"Episodic memory", fmt.Sprintf("%d", intro.EpisodicMemory)},
		{"Kernel generation", fmt.Sprintf("%d", intro.KernelGeneration)},
		{"Kernel fitness", fmt.Sprintf("%.4f", intro.KernelFitness)},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	traits := pterm.TableData{{"Trait", "Value"}}
	for trait, value := range intro.Personality {
		traits = append(traits, []string{trait, fmt.Sprintf("%.3f", value)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(traits).Render()
}
