package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/qsim"
)

var (
	shots       int
	seed        uint64
	top         int
	showMetrics bool
)

var runCmd = &cobra.Command{
	Use:   "run [circuit.yaml]",
	Short: "Run a circuit file and print its outcome distribution",
	Long: `Run applies every gate of the circuit file in order, starting from |0...0⟩.

Precision is taken from --precision, then the circuit file, then the config
file or QSIM_PRECISION.

Example:
  qsim run bell.yaml --shots 2048 --seed 7
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := qsim.LoadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		circuit, err := qsim.LoadCircuit(args[0])
		if err != nil {
			return err
		}

		if circuit.Precision != "" && !cmd.Flags().Changed("precision") {
			if config.Precision, err = qsim.ParsePrecision(circuit.Precision); err != nil {
				return err
			}
		}

		engine := qsim.NewEngine(cmd.Context(), config)
		defer engine.Close()

		sv, err := engine.NewState(circuit.Qubits)
		if err != nil {
			return err
		}

		if err := circuit.Run(engine, sv); err != nil {
			return err
		}

		printProbabilities(engine, sv)

		if shots > 0 {
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewPCG(seed, seed>>1|1))

			samples, err := engine.Sample(sv, rng, shots)
			if err != nil {
				return err
			}
			printCounts(samples, sv.NumQubits())
		}

		if showMetrics {
			spew.Fdump(os.Stdout, engine.Metrics().ExportMetrics())
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&shots, "shots", 1024, "measurement samples to draw (0 disables sampling)")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "sampling seed (0 picks one from the clock)")
	runCmd.Flags().IntVar(&top, "top", 16, "most probable basis states to list")
	runCmd.Flags().BoolVar(&showMetrics, "metrics", false, "dump engine metrics after the run")
}

func printProbabilities(engine *qsim.Engine, sv *qsim.StateVector) {
	probs := engine.Probabilities(sv)

	order := make([]int, 0, len(probs))
	for i, p := range probs {
		if p > 1e-12 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})
	if len(order) > top {
		order = order[:top]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"State", "Amplitude", "Probability"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, i := range order {
		table.Append([]string{
			"|" + qsim.Bitstring(i, sv.NumQubits()) + "⟩",
			fmt.Sprintf("%.5f", sv.At(i)),
			strconv.FormatFloat(probs[i], 'f', 6, 64),
		})
	}
	table.Render()
}

func printCounts(samples []int, nqubits int) {
	counts := make(map[int]int)
	for _, s := range samples {
		counts[s]++
	}

	outcomes := make([]int, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(a, b int) bool {
		if counts[outcomes[a]] != counts[outcomes[b]] {
			return counts[outcomes[a]] > counts[outcomes[b]]
		}
		return outcomes[a] < outcomes[b]
	})

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Outcome", "Count", "Frequency"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, o := range outcomes {
		table.Append([]string{
			qsim.Bitstring(o, nqubits),
			strconv.Itoa(counts[o]),
			strconv.FormatFloat(float64(counts[o])/float64(len(samples)), 'f', 4, 64),
		})
	}
	table.Render()
}
