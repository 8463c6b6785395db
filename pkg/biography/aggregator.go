package biography

import (
	"fmt"
	"log/slog"
)

// Aggregator merges extractor outputs into one Record. An aggregator serves
// exactly one person; a batch run creates a fresh one per person instead of
// reusing it.
type Aggregator struct {
	log   *slog.Logger
	built bool
}

// NewAggregator returns an aggregator. logger may be nil for silent operation.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{log: logger}
}

// Input bundles everything produced before aggregation.
type Input struct {
	PersonName string
	Fields     map[string]string // remaining infobox fields, already normalized
	Birth      DateLocation
	Death      DateLocation
	DeathAge   int // 0 when no age marker was found
	Timeline   Timeline
	Relations  RelationGraph
	Categories []string
}

// Build assembles the immutable record. Inputs are copied, never aliased,
// so callers cannot mutate the record afterwards. Calling Build twice on the
// same aggregator is an error.
func (a *Aggregator) Build(in Input) (Record, error) {
	if a.built {
		return Record{}, fmt.Errorf("aggregator already used for %q; create a fresh one per person", in.PersonName)
	}
	a.built = true

	deathAge := in.DeathAge
	if deathAge == 0 && in.Birth.HasDate() && in.Death.HasDate() {
		// Integer year subtraction, not calendar-exact.
		deathAge = in.Death.Year - in.Birth.Year
		if a.log != nil {
			a.log.Debug("derived death age from years",
				"person", in.PersonName, "age", deathAge)
		}
	}

	fields := make(map[string]string, len(in.Fields))
	for k, v := range in.Fields {
		if v != "" {
			fields[k] = v
		}
	}

	timeline := sortedCopy(in.Timeline)

	categories := make([]string, len(in.Categories))
	copy(categories, in.Categories)

	relations := RelationGraph{
		Subject:        in.Relations.Subject,
		Relations:      append([]Relation(nil), in.Relations.Relations...),
		RelatedPersons: append([]string(nil), in.Relations.RelatedPersons...),
	}
	if relations.Subject == "" {
		relations.Subject = in.PersonName
	}

	rec := Record{
		PersonName:      in.PersonName,
		BasicInfo:       BasicInfo{Birth: in.Birth, Death: in.Death, DeathAge: deathAge, Fields: fields},
		Timeline:        timeline,
		Relations:       relations,
		Categories:      categories,
		EventsPerDecade: eventsPerDecade(timeline),
	}
	if a.log != nil {
		a.log.Info("record assembled",
			"person", in.PersonName,
			"events", len(timeline),
			"relations", len(relations.Relations),
			"related_persons", len(relations.RelatedPersons))
	}
	return rec, nil
}

func eventsPerDecade(t Timeline) map[int]int {
	if len(t) == 0 {
		return nil
	}
	out := make(map[int]int)
	for _, ev := range t {
		out[ev.Year/10*10]++
	}
	return out
}
