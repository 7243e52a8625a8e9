package domain

import (
	"github.com/royxue/cocomo-waitlist/config"
	"github.com/royxue/cocomo-waitlist/domain/monitoring"
	"github.com/royxue/cocomo-waitlist/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	monitoringFactory := monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, appConfig.Cache)
	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger)

	appConfig.RouterService.MountController(monitoringFactory.CreateController())
	appConfig.RouterService.MountController(waitlistFactory.CreateController())
}
