package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Manage estimate calibration",
}

var (
	calTask     string
	calEstimate float64
	calActual   float64
)

var calibrateRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record how long a task actually took",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		if err := services.Estimation.RecordActual(calTask, calEstimate, calActual); err != nil {
			return MapError(err)
		}

		factor, err := services.Estimation.CalibrationFactor()
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Recorded: %q estimated %.0f min, took %.0f min.\n", calTask, calEstimate, calActual)
		fmt.Printf("Current calibration factor: %.2f\n", factor)
		return nil
	},
}

var calibrateFactorCmd = &cobra.Command{
	Use:   "factor",
	Short: "Show the calibration factor applied to estimates",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		factor, err := services.Estimation.CalibrationFactor()
		if err != nil {
			return MapError(err)
		}

		records, err := services.Workspace.Repo.LoadCalibrationHistory()
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Calibration factor: %.2f (from %d samples)\n", factor, len(records))
		return nil
	},
}

func init() {
	calibrateRecordCmd.Flags().StringVar(&calTask, "task", "", "Title of the completed task")
	calibrateRecordCmd.Flags().Float64Var(&calEstimate, "estimate", 0, "Original estimate in minutes")
	calibrateRecordCmd.Flags().Float64Var(&calActual, "actual", 0, "Observed actual in minutes")
	_ = calibrateRecordCmd.MarkFlagRequired("estimate")
	_ = calibrateRecordCmd.MarkFlagRequired("actual")
	calibrateCmd.AddCommand(calibrateRecordCmd)
	calibrateCmd.AddCommand(calibrateFactorCmd)
	RootCmd.AddCommand(calibrateCmd)
}
