package uci

import (
	"math"
	"strconv"
	"strings"
)

// Info is the last search-progress line seen before a bestmove. Only the
// final info line before a move is retained; earlier iterations are
// superseded by it.
type Info struct {
	Depth  int32
	Score  int32
	TimeMS int64
	PV     string
}

// mateSentinel maps a "score mate M" response onto the sentinel range used to
// represent mate scores: values within 1024 of the int16 extremes denote
// mate-in-N rather than a centipawn evaluation.
func mateSentinel(m int32) int32 {
	if m >= 0 {
		return math.MaxInt16 - m
	}
	return math.MinInt16 - m
}

// ParseInfo parses an "info ..." line. ok is false unless the line carries
// both a depth and a score, which is what the driver needs to retain it as
// the game record's Info for the ply.
func ParseInfo(line string) (info Info, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "info" {
		return Info{}, false
	}

	var haveDepth, haveScore bool
	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			if i+1 < len(fields) {
				if v, err := strconv.ParseInt(fields[i+1], 10, 32); err == nil {
					info.Depth = int32(v)
					haveDepth = true
				}
				i++
			}
		case "score":
			if i+2 < len(fields) {
				kind, val := fields[i+1], fields[i+2]
				if v, err := strconv.ParseInt(val, 10, 32); err == nil {
					switch kind {
					case "cp":
						info.Score = int32(v)
						haveScore = true
					case "mate":
						info.Score = mateSentinel(int32(v))
						haveScore = true
					}
				}
				i += 2
			}
		case "time":
			if i+1 < len(fields) {
				if v, err := strconv.ParseInt(fields[i+1], 10, 64); err == nil {
					info.TimeMS = v
				}
				i++
			}
		case "pv":
			info.PV = strings.Join(fields[i+1:], " ")
			i = len(fields)
		}
	}

	if !haveDepth || !haveScore {
		return Info{}, false
	}
	return info, true
}

// ParseBestMove parses a "bestmove <lan> [ponder <lan>]" line.
func ParseBestMove(line string) (move, ponder string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "bestmove" {
		return "", "", false
	}
	move = fields[1]
	if len(fields) >= 4 && fields[2] == "ponder" {
		ponder = fields[3]
	}
	return move, ponder, true
}

// ParseID parses an "id name ..." or "id author ..." line.
func ParseID(line string) (key, value string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "id" {
		return "", "", false
	}
	return fields[1], strings.Join(fields[2:], " "), true
}

// ParseOption parses an "option name ... type ... default ... " line,
// returning the name, type and default; min, max and var values are
// skipped. The transport uses the name to decide whether a configured UCI
// option is known to the engine.
func ParseOption(line string) (name, typ, def string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "option" {
		return "", "", "", false
	}

	var nameParts, defParts []string
	mode := ""
	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "name", "type", "default", "min", "max", "var":
			mode = fields[i]
			continue
		}
		switch mode {
		case "name":
			nameParts = append(nameParts, fields[i])
		case "type":
			typ = fields[i]
		case "default":
			defParts = append(defParts, fields[i])
		}
	}
	if len(nameParts) == 0 {
		return "", "", "", false
	}
	return strings.Join(nameParts, " "), typ, strings.Join(defParts, " "), true
}
