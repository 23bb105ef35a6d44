package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/roboclaw.go/pkg/comm/mqtt"
	"github.com/robotalks/roboclaw.go/pkg/drive/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/robo/"
	topic   = "#"
)

func init() {
	if val := os.Getenv("ROBOCLAW_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topic, "topic", topic, "Topic pattern relative to the prefix.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL, "")
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub(topic, func(topic string, payload []byte) {
		msg, err := msgs.Decode(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		out, err := msg.JSON()
		if err != nil {
			log.Printf("%s: [%s] %v", topic, msg.Type, err)
			return
		}
		log.Printf("%s: [%s] %s", topic, msg.Type, out)
	})
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
