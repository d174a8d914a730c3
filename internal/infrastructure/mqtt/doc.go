// Package mqtt publishes driver state changes to an MQTT broker.
//
// Alpaca is strictly request/response, so observatory dashboards and
// home-automation systems that want push updates subscribe to the
// driver's MQTT feed instead of polling the HTTP API.
//
// # Architecture
//
// Client wraps paho.mqtt.golang with connection management, automatic
// reconnection, and a Last Will and Testament on kasa/driver/status so
// subscribers can tell a crashed driver from a stopped one. The driver
// only publishes; there is no inbound command surface.
//
// Feed adapts the client to the controller's Publisher interface:
// connection changes go to kasa/driver/event/connection, verified
// switch writes go to the channel's retained kasa/channel/{name}/state
// topic. Publishing is best-effort and never fails the originating
// request.
//
// The whole package is optional: with mqtt disabled in config the
// controller simply runs without a publisher.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	ctrl.SetPublisher(mqtt.NewFeed(client, logger))
package mqtt
