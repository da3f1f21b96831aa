package game

// processMove relocates the selected drone to the chosen destination lane. The
// drone joins the back of its new lane and is exhausted by the maneuver.
func processMove(ctx *procCtx, e Effect, sel Selection) error {
	if sel.Target == nil || sel.Destination == "" {
		return nil
	}
	side := ctx.side(sel.Target.Owner)
	d := side.FindDrone(sel.Target.ID)
	if d == nil {
		return nil
	}
	if !side.MoveDrone(d.ID, sel.Destination) {
		return nil
	}
	d.Exhausted = true
	ctx.emit(AnimationEvent{Kind: AnimMove, Target: sel.Target, Lane: sel.Destination, Owner: side.ID, Name: d.Name})
	return nil
}

// processDeploy places fresh copies of a named drone into the selected lane.
// Value is the copy count, defaulting to one. Deployed drones arrive ready.
func processDeploy(ctx *procCtx, e Effect, sel Selection) error {
	if e.Filter == nil || e.Filter.DroneName == "" {
		return configErrorf("DEPLOY effect names no drone")
	}
	lane := ctx.sourceLaneFor(sel)
	if lane == "" {
		return configErrorf("DEPLOY effect resolved no lane")
	}
	spec, ok := DroneSpecs[e.Filter.DroneName]
	if !ok {
		return configErrorf("DEPLOY effect names unknown drone %q", e.Filter.DroneName)
	}
	count := e.Value
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		d := spec.Instantiate(ctx.idGen("d"))
		ctx.actor.AddDrone(lane, d)
		ctx.emit(AnimationEvent{Kind: AnimDeploy, Target: &Target{Kind: TargetDrone, ID: d.ID, Lane: lane, Owner: ctx.actor.ID}, Lane: lane, Owner: ctx.actor.ID, Name: d.Name})
	}
	return nil
}

// sourceLaneFor extracts the lane a lane-less effect should act in: the
// selected lane target if there is one, otherwise the selection's source lane.
func (ctx *procCtx) sourceLaneFor(sel Selection) LaneID {
	if sel.Target != nil && sel.Target.Lane != "" {
		return sel.Target.Lane
	}
	return sel.SourceLane
}
