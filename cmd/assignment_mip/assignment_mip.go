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

// The assignment_mip command builds a small linear assignment problem as a
// mixed-integer program, solves it, and prints the matching.
package main

import (
	"flag"
	"fmt"

	log "github.com/golang/glog"

	"github.com/optkit/mip/assignment"
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

func assignmentMip() error {
	params, err := solveParameters()
	if err != nil {
		return err
	}

	inst := assignment.SampleInstance()
	sol, err := assignment.SolveWithParameters(inst, params)
	if err != nil {
		return fmt.Errorf("failed to solve the assignment instance: %w", err)
	}

	fmt.Printf("Status: %v\n", sol.Status)
	switch sol.Status {
	case mipmodel.StatusOptimal, mipmodel.StatusFeasible:
		fmt.Printf("Total cost: %g\n", sol.TotalCost)
		for i, j := range sol.TaskOfResource {
			fmt.Printf("Resource %d assigned to task %d with cost %g\n", i+1, j+1, inst.Cost(i, j))
		}
	default:
		fmt.Println("No solution found.")
	}

	return nil
}

func main() {
	flag.Parse()
	if err := assignmentMip(); err != nil {
		log.Exitf("assignmentMip returned with error: %v", err)
	}
}
