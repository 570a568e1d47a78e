// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package overview loads the statistics page and tracks service health.
//
// StatsLoader fetches the aggregate statistics once and on explicit reload,
// keeping the last good snapshot when a reload fails. HealthMonitor probes
// the service root and reports unknown, up or down, optionally re-probing
// on a cron schedule.
package overview
