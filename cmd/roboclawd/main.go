package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/roboclaw.go/pkg/comm/mqtt"
	"github.com/robotalks/roboclaw.go/pkg/drive"
	"github.com/robotalks/roboclaw.go/pkg/env"
	fx "github.com/robotalks/roboclaw.go/pkg/framework"
)

func init() {
	env.SetupFlags()
	drive.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.MustNewConfig()
	e := conf.MustNewEnv()
	defer e.Close()

	loop := fx.NewLoop()
	loop.Interval = conf.Drive.Interval

	var pub drive.Publisher
	if conf.MQTTURL != "" {
		q, err := mqtt.NewQueueFromURL(conf.MQTTURL, conf.ID)
		if err != nil {
			glog.Exitf("MQTT: %v", err)
		}
		bridge := mqtt.NewBridge(q, conf.ID)
		loop.Add(bridge)
		pub = bridge
	}

	ctl := conf.Drive.NewController(e.Device, pub)
	if err := ctl.Init(time.Now()); err != nil {
		glog.Exitf("init %s@%s: %v", conf.Device, e.Device.Address(), err)
	}
	glog.Infof("driving %s@%s as %q", conf.Device, e.Device.Address(), conf.ID)
	loop.Add(ctl).RunOrFail()
}
