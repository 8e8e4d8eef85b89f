package service

import "github.com/google/wire"

// ProviderSet is the Wire provider set for the service package.
var ProviderSet = wire.NewSet(NewTaskProcessor, NewBatchService, NewManifestService)
