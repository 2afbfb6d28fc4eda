// Package feed exports the train roster as a GTFS-Realtime trip update feed.
package feed

import (
	"fmt"
	"math"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"tarediiran-industries.com/side-services/internal/viewmodel"
)

const (
	RealtimeVersion = "2.0"

	FormatProto = "proto"
	FormatJSON  = "json"
)

// BuildFeedMessage emits one TripUpdate per train that has a train number.
// Trains without one cannot be keyed and are left out.
func BuildFeedMessage(roster []viewmodel.TrainSummary, now time.Time) *gtfs.FeedMessage {
	timestamp := uint64(now.Unix())
	trains := lo.Filter(roster, func(train viewmodel.TrainSummary, _ int) bool {
		return train.TrainNoLocal != ""
	})

	entities := make([]*gtfs.FeedEntity, 0, len(trains))
	for _, train := range trains {
		entities = append(entities, &gtfs.FeedEntity{
			Id:         proto.String(train.TrainNoLocal),
			TripUpdate: tripUpdate(train, timestamp),
		})
	}

	return &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String(RealtimeVersion),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(timestamp),
		},
		Entity: entities,
	}
}

func tripUpdate(train viewmodel.TrainSummary, timestamp uint64) *gtfs.TripUpdate {
	update := &gtfs.TripUpdate{
		Trip: &gtfs.TripDescriptor{
			TripId: proto.String(train.TrainNoLocal),
		},
		Vehicle: &gtfs.VehicleDescriptor{
			Id:    proto.String(train.TrainNoLocal),
			Label: proto.String(train.Name),
		},
		Timestamp: proto.Uint64(timestamp),
	}
	if minutes, ok := train.Delay.Get(); ok {
		update.Delay = proto.Int32(seconds(minutes))
	}

	for i, entry := range train.Timetable {
		stu := &gtfs.TripUpdate_StopTimeUpdate{
			StopSequence: proto.Uint32(uint32(i + 1)),
			StopId:       proto.String(entry.StationName),
			Arrival:      stopTimeEvent(entry.Arrival, entry.DelayMinutes),
			Departure:    stopTimeEvent(entry.Departure, entry.DelayMinutes),
		}
		update.StopTimeUpdate = append(update.StopTimeUpdate, stu)
	}
	return update
}

// stopTimeEvent returns nil when the timetable has no usable time for the event.
func stopTimeEvent(at string, delayMinutes int) *gtfs.TripUpdate_StopTimeEvent {
	if at == "" {
		return nil
	}
	t, err := time.ParseInLocation(viewmodel.TimetableLayout, at, time.UTC)
	if err != nil {
		return nil
	}
	return &gtfs.TripUpdate_StopTimeEvent{
		Time:  proto.Int64(t.Unix()),
		Delay: proto.Int32(seconds(delayMinutes)),
	}
}

// seconds converts a delay in minutes, saturating at the int32 range of the feed.
func seconds(minutes int) int32 {
	switch {
	case minutes > math.MaxInt32/60:
		return math.MaxInt32
	case minutes < math.MinInt32/60:
		return math.MinInt32
	}
	return int32(minutes * 60)
}

// Marshal encodes a feed as wire-format protobuf or as indented JSON.
func Marshal(message *gtfs.FeedMessage, format string) ([]byte, error) {
	switch format {
	case "", FormatProto:
		return proto.Marshal(message)
	case FormatJSON:
		return protojson.MarshalOptions{Multiline: true}.Marshal(message)
	default:
		return nil, fmt.Errorf("unknown feed format %q", format)
	}
}

// ContentType is the media type of a feed encoded in format.
func ContentType(format string) string {
	if format == FormatJSON {
		return "application/json"
	}
	return "application/x-protobuf"
}
