package main

import (
	"log"
	"time"

	"github.com/olivierh59500/charged-particles/sim"
)

// runHeadless ticks st.Ticks times with no display, logging diagnostics every
// st.Every ticks. Under the elapsed timestep policy it feeds the wall-clock
// duration of the previous tick.
func runHeadless(s *sim.Simulation, st *settings) error {
	start := time.Now()
	last := start
	elapsed := 0.0
	for i := 1; i <= st.Ticks; i++ {
		d, err := s.Tick(elapsed)
		if err != nil {
			return err
		}
		now := time.Now()
		elapsed = now.Sub(last).Seconds()
		last = now

		if i%st.Every == 0 || i == st.Ticks {
			log.Printf("tick %d dt=%.5f momentum=(%.6g, %.6g) kinetic=%.6g",
				d.Tick, d.Dt, d.Momentum.X, d.Momentum.Y, d.KineticEnergy)
		}
	}
	total := time.Since(start)
	log.Printf("ran %d ticks in %s (%.1f ticks/s)", st.Ticks, total.Round(time.Millisecond),
		float64(st.Ticks)/total.Seconds())
	return nil
}
