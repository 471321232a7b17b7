package lruipv

import "github.com/rs/zerolog"

// trace emits the stack ordering around a shift.
func (p *Policy) trace(op string, entry Entry, from, to Rank, before, after []Rank) {
	event := p.log.Trace()
	if !event.Enabled() {
		return
	}
	event.Str("op", op).
		Int("set", entry.set).
		Int("way", entry.way).
		Uint8("from", uint8(from)).
		Uint8("to", uint8(to)).
		Array("before", ordering(before)).
		Array("after", ordering(after)).
		Msg("shift")
}

type ordering []Rank

func (o ordering) MarshalZerologArray(array *zerolog.Array) {
	for _, rank := range o {
		array.Uint8(uint8(rank))
	}
}
