//go:build integration_test || all_tests

package testinternals

// SchemaSQL mirrors the tables filled by the TCX importer.
const SchemaSQL = `
CREATE TABLE public.activity
(
    tcxid               INTEGER PRIMARY KEY,
    activityid          TEXT,
    sport               TEXT,
    notes               TEXT,
    lapstarttime        TEXT,
    totaltimeseconds    DOUBLE PRECISION,
    distancemeters      DOUBLE PRECISION,
    maximumspeed        DOUBLE PRECISION,
    calories            INTEGER,
    averageheartratebpm INTEGER,
    maximumheartratebpm INTEGER,
    intensity           TEXT
);

CREATE TABLE public.speeds_dists
(
    tcxid             INTEGER     NOT NULL REFERENCES public.activity (tcxid),
    time              TIMESTAMPTZ NOT NULL,
    speed_kph         DOUBLE PRECISION,
    gradient          DOUBLE PRECISION,
    avg_heartrate_bpm DOUBLE PRECISION
);

CREATE INDEX ix_speeds_dists_tcxid_time ON public.speeds_dists (tcxid, time);
`

// SeedSQL loads five activities:
//
//	1: May 3rd morning run, first sample standing still, nulls in gradient and heart rate
//	2: May 3rd evening walk, flat
//	3: May 20th, no valid speed at all
//	4: June 1st run, single sample
//	5: unparsable start time, no samples
const SeedSQL = `
INSERT INTO public.activity
    (tcxid, activityid, sport, notes, lapstarttime, totaltimeseconds, distancemeters,
     maximumspeed, calories, averageheartratebpm, maximumheartratebpm, intensity)
VALUES
    (1, '2024-05-03T07:00:00Z', 'Running', 'easy run', '2024-05-03T07:00:00Z', 600, 2000, 12, 150, 124, 131, 'Active'),
    (2, '2024-05-03T18:00:00Z', 'Walking', NULL, '2024-05-03T18:00:00Z', 120, 200, 6, NULL, NULL, NULL, 'Resting'),
    (3, '2024-05-20T06:00:00Z', NULL, NULL, '2024-05-20T06:00:00Z', NULL, NULL, NULL, NULL, NULL, NULL, NULL),
    (4, '2024-06-01T06:00:00Z', 'Running', 'short', '2024-06-01T06:00:00Z', 60, 150, 9, 10, NULL, NULL, 'Active'),
    (5, NULL, 'Other', NULL, 'garbage', NULL, NULL, NULL, NULL, NULL, NULL, NULL);

INSERT INTO public.speeds_dists (tcxid, time, speed_kph, gradient, avg_heartrate_bpm)
VALUES
    (1, '2024-05-03T07:00:00Z', 0, 1, 110),
    (1, '2024-05-03T07:00:01Z', 10, 1, 120),
    (1, '2024-05-03T07:01:01Z', 11, NULL, 125),
    (1, '2024-05-03T07:02:01Z', 12, 2, NULL),
    (2, '2024-05-03T18:00:00Z', 5, 0, NULL),
    (2, '2024-05-03T18:00:30Z', 6, 0, NULL),
    (3, '2024-05-20T06:00:00Z', 0, 3, 90),
    (3, '2024-05-20T06:00:01Z', NULL, 4, 95),
    (4, '2024-06-01T06:00:00Z', 9, -1, 140);
`
