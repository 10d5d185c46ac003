// Command printctl is a thin CLI client for printctl-node's RPC surface
// (spec.md §1, §6). Grounded on ehrlich-b-wingthing's cobra.Command
// layout: one root command, flag-driven subcommands dialing a daemon.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/printctl/printctl-go/internal/gcode"
	"github.com/printctl/printctl-go/internal/simulator"
	"github.com/printctl/printctl-go/internal/snapshot"
	"github.com/printctl/printctl-go/internal/thermal"
	"github.com/printctl/printctl-go/rpc/printctlpb"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	var nodeAddr string

	root := &cobra.Command{
		Use:   "printctl",
		Short: "printctl — CLI for a printctl-node fleet member",
	}
	root.PersistentFlags().StringVar(&nodeAddr, "node", "127.0.0.1:50051", "address of the printctl-node to contact")

	root.AddCommand(listDevicesCmd(&nodeAddr), connectCmd(&nodeAddr), previewCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dial(addr string) (printctlpb.PrintctlClient, func(), error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return printctlpb.NewPrintctlClient(conn), func() { conn.Close() }, nil
}

func listDevicesCmd(nodeAddr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list-devices",
		Short: "list serial devices available on the target node",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := dial(*nodeAddr)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			resp, err := client.AvailableDevices(ctx, &printctlpb.AvailableDevicesRequest{})
			if err != nil {
				return fmt.Errorf("available devices: %w", err)
			}
			if len(resp.Devices) == 0 {
				fmt.Println("no devices found")
				return nil
			}
			for _, d := range resp.Devices {
				fmt.Printf("%s\tvendor=%s(%04x)\tproduct=%s(%04x)\tserial=%s\n",
					d.Path, d.Vendor, d.VendorID, d.Product, d.ProductID, d.SerialNumber)
			}
			return nil
		},
	}
}

// previewCmd runs the simulation path locally (spec.md §1's "simulation
// path": a G-code blob parsed into a program, folded through the state
// machine, reduced to statistics) without contacting any node.
func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <gcode-file>",
		Short: "simulate a g-code file and print summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			prog, err := gcode.ParseProgram(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			models := snapshot.HeaterModels{
				Bed: thermal.Lumped{Ambient: 25, PowerW: 220, LossCoeff: 0.8, HeatCapacity: 420},
				Tools: []thermal.Model{
					thermal.Lumped{Ambient: 25, PowerW: 40, LossCoeff: 0.6, HeatCapacity: 12},
				},
			}
			tl := simulator.Simulate(prog, models)
			stats := tl.Statistics()

			fmt.Printf("duration: %.1fs\n", stats.TotalDuration)
			fmt.Printf("max bed temp: %.1fC\n", stats.MaxBedTempC)
			for i, t := range stats.MaxToolTempC {
				fmt.Printf("max tool %d temp: %.1fC\n", i, t)
			}
			for i, mm := range stats.FilamentMM {
				fmt.Printf("tool %d filament used: %.1fmm\n", i, mm)
			}
			return nil
		},
	}
}

func connectCmd(nodeAddr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <printer-id>",
		Short: "stream firmware lines from one connected printer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := dial(*nodeAddr)
			if err != nil {
				return err
			}
			defer closeFn()

			stream, err := client.DeviceConnection(context.Background(), &printctlpb.DeviceConnectionRequest{PrinterID: args[0]})
			if err != nil {
				return fmt.Errorf("device connection: %w", err)
			}

			for {
				ev, err := stream.Recv()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if ev.Lagged {
					fmt.Fprintln(os.Stderr, "(dropped lines, resubscribe recommended)")
					continue
				}
				fmt.Println(ev.Line)
			}
		},
	}
}
