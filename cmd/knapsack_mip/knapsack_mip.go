// Copyright 2024-2026 The optkit Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The knapsack_mip command builds a small 0/1 knapsack problem as a
// mixed-integer program, solves it, and prints the chosen items.
package main

import (
	"flag"
	"fmt"

	log "github.com/golang/glog"

	"github.com/optkit/mip/knapsack"
	"github.com/optkit/mip/mipmodel"
)

var (
	timeLimit = flag.Float64("time_limit", 0, "time limit for the solve in seconds, 0 means no limit")
	lpEngine  = flag.String("lp_engine", "gonum", "LP engine for the relaxations: gonum or lpsimplex")
)

func solveParameters() (mipmodel.SolveParameters, error) {
	params := mipmodel.SolveParameters{MaxTimeInSeconds: *timeLimit}
	switch *lpEngine {
	case "gonum":
		params.LPEngine = mipmodel.EngineGonum
	case "lpsimplex":
		params.LPEngine = mipmodel.EngineLPSimplex
	default:
		return params, fmt.Errorf("unknown LP engine %q", *lpEngine)
	}
	return params, nil
}

func knapsackMip() error {
	params, err := solveParameters()
	if err != nil {
		return err
	}

	inst := knapsack.SampleInstance()
	sol, err := knapsack.SolveWithParameters(inst, params)
	if err != nil {
		return fmt.Errorf("failed to solve the knapsack instance: %w", err)
	}

	fmt.Printf("Status: %v\n", sol.Status)
	switch sol.Status {
	case mipmodel.StatusOptimal, mipmodel.StatusFeasible:
		fmt.Printf("Total packed value: %g\n", sol.TotalValue)
		fmt.Printf("Total packed weight: %g (capacity %g)\n", sol.TotalWeight, inst.Capacity)
		for _, i := range sol.Selected {
			item := inst.Items[i]
			fmt.Printf("%s: value %g, weight %g\n", item.Name, item.Value, item.Weight)
		}
	default:
		fmt.Println("No solution found.")
	}

	return nil
}

func main() {
	flag.Parse()
	if err := knapsackMip(); err != nil {
		log.Exitf("knapsackMip returned with error: %v", err)
	}
}
