package query

// signalKind enumerates what a stage can answer when the machine calls it.
type signalKind uint8

const (
	// signalGremlin carries a live gremlin to the next stage.
	signalGremlin signalKind = iota
	// signalPull asks the stage on the left for more input.
	signalPull
	// signalDone marks the stage as permanently exhausted.
	signalDone
	// signalEmpty rejects the incoming gremlin.
	signalEmpty
)

type signal struct {
	kind    signalKind
	gremlin *Gremlin
}

var (
	pull  = signal{kind: signalPull}
	done  = signal{kind: signalDone}
	empty = signal{kind: signalEmpty}
)

func emit(g *Gremlin) signal {
	return signal{kind: signalGremlin, gremlin: g}
}
