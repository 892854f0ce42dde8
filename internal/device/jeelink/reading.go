package jeelink

import (
	"fmt"
	"strconv"
	"time"

	"github.com/martinclaus/sensorflow/internal/lineproto"
)

// Measurement is the line-protocol measurement name for readings.
const Measurement = "tempHum"

// Reading is one temperature/humidity report of a LaCrosse sensor.
type Reading struct {
	ID          uint8   `json:"id"`
	SensorType  uint8   `json:"sensor_type"`
	NewBattery  bool    `json:"new_battery"`
	WeakBattery bool    `json:"weak_battery"`
	Temperature float64 `json:"temperature"`
	Humidity    uint8   `json:"humidity"`
}

func (r Reading) String() string {
	return fmt.Sprintf("Sensor %2d: Type %2d, Temperature %4.1f, Humidity %2d, weak battery: %t, new battery: %t",
		r.ID, r.SensorType, r.Temperature, r.Humidity, r.WeakBattery, r.NewBattery)
}

// Point converts the reading, stamped with the current time.
func (r Reading) Point() *lineproto.Point {
	return r.PointAt(time.Now())
}

// PointAt converts the reading with timestamp ts. A zero ts leaves the
// timestamp off the line.
func (r Reading) PointAt(ts time.Time) *lineproto.Point {
	return lineproto.New(Measurement).
		AddTag("sensorId", strconv.Itoa(int(r.ID))).
		AddTag("sensorType", strconv.Itoa(int(r.SensorType))).
		AddField("temperature", lineproto.Float(r.Temperature)).
		AddField("humidity", lineproto.Uint(uint64(r.Humidity))).
		AddField("weak_battery", lineproto.Bool(r.WeakBattery)).
		AddField("new_battery", lineproto.Bool(r.NewBattery)).
		SetTime(ts)
}
