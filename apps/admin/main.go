package main

import (
	"context"
	"log"
	"os"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
	"github.com/Aastha-hs1d/JyotiPortal/core/attendance"
	"github.com/Aastha-hs1d/JyotiPortal/core/backup"
	"github.com/Aastha-hs1d/JyotiPortal/core/fee"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
	broadcastsvc "github.com/Aastha-hs1d/JyotiPortal/services/broadcast"
	logsvc "github.com/Aastha-hs1d/JyotiPortal/services/logger"
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv"
	"github.com/Aastha-hs1d/JyotiPortal/storage/snapshot"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(false)

	var store core.KVStore
	defer func() {
		if store != nil {
			_ = store.Close()
		}
	}()

	cli := commandLine{
		conf: conf,
		out:  os.Stdout,
		open: func() (*services, error) {
			var err error
			if store, err = kv.Open(context.Background(), conf); err != nil {
				return nil, err
			}
			return newServices(store, logger), nil
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		if store != nil {
			_ = store.Close()
		}
		os.Exit(1)
	}
}

func newServices(store core.KVStore, logger core.Logger) *services {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	students := student.NewService(snapshot.NewStudentRepository(store, logger), validate)
	fees := fee.NewService(snapshot.NewFeeRepository(store, logger), students, validate)
	announcements := announcement.NewService(
		snapshot.NewAnnouncementRepository(store, logger), broadcastsvc.NewConsoleService(logger), validate,
	)
	return &services{
		fees:       fees,
		attendance: attendance.NewService(snapshot.NewAttendanceRepository(store, logger)),
		backup:     backup.NewService(store, students, fees, announcements),
	}
}
