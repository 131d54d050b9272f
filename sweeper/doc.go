// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sweeper runs the background job that retires expired rooms.

# Lifecycle

main creates one Sweeper and runs it for the life of the process:

	sw := sweeper.New(db, cfg.SweepInterval)
	sw.Start()
	defer sw.Stop()

# Sweep Semantics

Each tick finds rooms whose expires_at is in the past and that are not
yet closed. For each one, results are announced first (winner recorded,
XP and badges credited) and only then is the room marked closed. If the
announcement fails the room is left open so the next tick retries it;
failures are logged per room and never abort the rest of the sweep.

A room that expires with no performances is closed without a winner;
the close still force-sets results_announced so the room never stays
eligible for future sweeps.
*/
package sweeper
