package trip

// Environmental and effort conversions for bike legs. Factors mirror the
// usual urban-mobility estimates: a displaced car trip at co2GramsPerKm, a
// mature urban tree absorbing 0.060 kg of CO2 per day, and a cycling calorie
// rate interpolated between a relaxed and a brisk pace.
const (
	treeKgPerDay = 0.060

	calSpeedLowKmh  = 15.0
	calSpeedHighKmh = 28.0
	calRateLowHour  = 400.0
	calRateHighHour = 900.0
)

// CO2AvoidedKg converts a ridden distance into kilograms of CO2 a car trip
// of the same length would have emitted.
func CO2AvoidedKg(distanceKm, gramsPerKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return distanceKm * gramsPerKm / 1000.0
}

// TreeDayEquivalent expresses avoided CO2 as days of absorption by a single
// urban tree.
func TreeDayEquivalent(co2Kg float64) float64 {
	if co2Kg <= 0 {
		return 0
	}
	return co2Kg / treeKgPerDay
}

// CaloriesBurned estimates calories for a bike leg from its distance and
// duration. The hourly burn rate is interpolated linearly between 400 kcal/h
// at 15 km/h and 900 kcal/h at 28 km/h, with speeds clamped to that range.
// Zero or negative durations burn nothing.
func CaloriesBurned(distanceKm, durationMin float64) float64 {
	if durationMin <= 0 || distanceKm <= 0 {
		return 0
	}
	hours := durationMin / 60.0
	speed := distanceKm / hours
	if speed < calSpeedLowKmh {
		speed = calSpeedLowKmh
	}
	if speed > calSpeedHighKmh {
		speed = calSpeedHighKmh
	}
	rate := calRateLowHour + (speed-calSpeedLowKmh)*(calRateHighHour-calRateLowHour)/(calSpeedHighKmh-calSpeedLowKmh)
	return rate * hours
}
