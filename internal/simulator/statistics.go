package simulator

// Statistics is a pure derived view over a completed Timeline: total
// duration, final filament extrusion per tool, and peak temperatures
// reached. Grounded on original_source's printctl-ui statistics feature,
// which the UI renders but never computes — here it is computed once and
// offered read-only, since it is just a fold over the snapshot engine's
// own output.
type Statistics struct {
	TotalDuration float64
	FilamentMM    []float64
	MaxToolTempC  []float64
	MaxBedTempC   float64
}

// Statistics summarizes tl without requiring the caller to walk entries.
func (tl Timeline) Statistics() Statistics {
	stats := Statistics{TotalDuration: tl.TotalDuration}
	if len(tl.Entries) == 0 {
		return stats
	}

	last := tl.Entries[len(tl.Entries)-1].Snapshot.After
	stats.FilamentMM = make([]float64, len(last.Tools))
	for i, tool := range last.Tools {
		stats.FilamentMM[i] = tool.Extrusion.AsMM()
	}
	stats.MaxToolTempC = make([]float64, len(last.Tools))

	for _, e := range tl.Entries {
		after := e.Snapshot.After
		if after.BedHeater.CurrentC > stats.MaxBedTempC {
			stats.MaxBedTempC = after.BedHeater.CurrentC
		}
		for i, tool := range after.Tools {
			if i >= len(stats.MaxToolTempC) {
				break
			}
			if tool.Heater.CurrentC > stats.MaxToolTempC[i] {
				stats.MaxToolTempC[i] = tool.Heater.CurrentC
			}
		}
	}

	return stats
}
