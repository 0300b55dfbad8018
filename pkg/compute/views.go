// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

var KernelView = View{
	DefaultSort: "name",
	Summary: []Field{
		F("name", "name"),
		F("description", "description"),
	},
	Detail: []Field{
		F("name", "name"),
		F("description", "description"),
		F("creation-time", "creationTimestamp"),
	},
}

var MachineTypeView = View{
	DefaultSort: "name",
	Summary: []Field{
		F("name", "name"),
		F("description", "description"),
		F("cpus", "guestCpus"),
		F("memory-mb", "memoryMb"),
		F("ephemeral-disk-size-gb", "ephemeralDisks.diskGb"),
		F("max-pds", "maximumPersistentDisks"),
		F("max-total-pd-size-gb", "maximumPersistentDisksSizeGb"),
	},
	Detail: []Field{
		F("name", "name"),
		F("description", "description"),
		F("creation-time", "creationTimestamp"),
		F("cpus", "guestCpus"),
		F("memory-mb", "memoryMb"),
		F("ephemeral-disk-size-gb", "ephemeralDisks.diskGb"),
		F("max-pds", "maximumPersistentDisks"),
		F("max-total-pd-size-gb", "maximumPersistentDisksSizeGb"),
		F("available-zones", "availableZone"),
	},
}

var OperationView = View{
	DefaultSort: "insert-time",
	Summary: []Field{
		F("name", "name"),
		F("zone", "zone"),
		F("status", "status"),
		F("status-message", "statusMessage"),
		F("target", "targetLink"),
		F("insert-time", "insertTime"),
		F("operation-type", "operationType"),
		F("error", "error.errors.code"),
		F("warning", "warnings.code"),
	},
	Detail: []Field{
		F("name", "name"),
		F("zone", "zone"),
		F("creation-time", "creationTimestamp"),
		F("status", "status"),
		F("progress", "progress"),
		F("status-message", "statusMessage"),
		F("target", "targetLink"),
		F("target-id", "targetId"),
		F("client-operation-id", "clientOperationId"),
		F("insert-time", "insertTime"),
		F("user", "user"),
		F("start-time", "startTime"),
		F("end-time", "endTime"),
		F("operation-type", "operationType"),
		F("error-code", "httpErrorStatusCode"),
		F("error-message", "httpErrorMessage"),
		F("warning", "warnings.code"),
		F("warning-message", "warnings.message"),
	},
}

// InstanceView is used to report instances recreated by a move.
var InstanceView = View{
	DefaultSort: "name",
	Summary: []Field{
		F("name", "name"),
		F("machine-type", "machineType"),
		F("zone", "zone"),
		F("status", "status"),
	},
	Detail: []Field{
		F("name", "name"),
		F("machine-type", "machineType"),
		F("zone", "zone"),
		F("status", "status"),
	},
}
