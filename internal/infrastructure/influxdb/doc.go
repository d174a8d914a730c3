// Package influxdb records meter gauge samples to InfluxDB v2.
//
// Every successful gauge read (power, voltage, current) is written to
// the channel_metrics measurement, tagged by channel and metric. Over
// an imaging season this builds a searchable history of what each
// piece of equipment drew and when.
//
// # Architecture
//
// Client wraps influxdb-client-go's non-blocking write API: samples
// are batched in memory and flushed on an interval, so recording never
// delays an Alpaca request. Write failures surface through an error
// callback rather than the write call.
//
// Recorder adapts the client to the controller's Recorder interface.
// The whole package is optional: with influxdb disabled in config the
// controller simply runs without a recorder.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	ctrl.SetRecorder(influxdb.NewRecorder(client))
package influxdb
