package cli

import (
	"github.com/alecthomas/kingpin"
	"github.com/dutch-bridge/settler-svc/internal/config"
	"github.com/dutch-bridge/settler-svc/internal/service"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3"
)

func Run(args []string) bool {
	log := logan.New()

	defer func() {
		if rvr := recover(); rvr != nil {
			log.WithRecover(rvr).Error("app panicked")
		}
	}()

	cfg := config.New(kv.MustFromEnv())
	log = cfg.Log()

	app := kingpin.New("settler-svc", "")

	runCmd := app.Command("run", "run command")
	serviceCmd := runCmd.Command("service", "run service")
	depositCmd := app.Command("deposit", "open a new cross-chain order")

	cmd, err := app.Parse(args[1:])
	if err != nil {
		log.WithError(err).Error("failed to parse arguments")
		return false
	}

	switch cmd {
	case serviceCmd.FullCommand():
		service.Run(cfg)
	case depositCmd.FullCommand():
		if err := service.Deposit(cfg); err != nil {
			log.WithError(err).Error("failed to deposit")
			return false
		}
	default:
		log.Errorf("unknown command %s", cmd)
		return false
	}

	return true
}
