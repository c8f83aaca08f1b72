// Package eventconfig provides a configuration builder covering every
// tunable across the SAE, normal-flow estimator, circle extractor, and grid
// finder, mirroring the teacher's internal/lidar.BackgroundConfig
// builder-with-defaults-and-Validate pattern plus internal/config's
// JSON overlay ("*T" optional field) pattern for partial updates.
package eventconfig
