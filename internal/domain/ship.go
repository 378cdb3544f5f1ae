package domain

// Hydrodynamic and engine parameters for one vessel.
// Constructed once from configuration and passed by value into every
// planner and the simulator; nothing mutates it after startup.
type ShipParams struct {
	Name string

	DesignSpeedKn float64 // calm-water service speed
	MinEngineKn   float64 // lowest sustainable engine speed
	MaxEngineKn   float64 // engine limit; the simulator clamps to this

	BaseFuelTPH  float64 // propulsion fuel at design speed, tonnes/hour
	HotelFuelTPH float64 // speed-independent auxiliary load, tonnes/hour

	LengthM       float64 // waterline length, for the Froude number
	DisplacementT float64 // displacement, tonnes
	WaveDragCoeff float64 // extra speed-loss percent per metre of wave height
}

// DefaultShip is a handysize bulk carrier used for local runs and tests.
func DefaultShip() ShipParams {
	return ShipParams{
		Name:          "MV Meridian",
		DesignSpeedKn: 14.0,
		MinEngineKn:   6.0,
		MaxEngineKn:   17.5,
		BaseFuelTPH:   1.25,
		HotelFuelTPH:  0.08,
		LengthM:       180,
		DisplacementT: 52000,
		WaveDragCoeff: 0.6,
	}
}
