package service

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable/internal/models"
)

// ErrInfeasible is returned verbatim as the scheduler's single error string
// when no worker finds a feasible student timetable within the time budget.
var ErrInfeasible = errors.New("No feasible student timetable found.")

const (
	consecSameSubjectWeight = 50
	lateSlotWeight          = 1
	daySpreadGapThreshold   = 2
)

// candidatePair is a (slot, room) option for placing a single course
// session: only rooms whose type satisfies the course's lab requirement
// are considered, and only slots the room actually lists as available.
type candidatePair struct {
	slot models.TimeSlot
	room string
}

// StudentScheduler builds and solves the student-centric placement model
// with a small pool of workers, each greedily placing courses in a
// distinct order and racing to the first hard-constraint-satisfying
// assignment; a subsequent repair pass reduces the soft objective within
// whatever time budget remains.
type StudentScheduler struct {
	logger     *zap.Logger
	maxWorkers int
}

// NewStudentScheduler constructs a scheduler. A nil logger is replaced with
// a no-op logger, and a non-positive maxWorkers falls back to
// min(runtime.NumCPU(), 8).
func NewStudentScheduler(maxWorkers int, logger *zap.Logger) *StudentScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentScheduler{maxWorkers: maxWorkers, logger: logger}
}

// Solve places every course into (slot, room) cells under the hard
// scheduling constraints, minimising soft penalties within the time
// budget, and returns per-slot placements plus per-student timetables.
func (s *StudentScheduler) Solve(ctx context.Context, master models.MasterData, timeLimitSeconds int) (*models.SchedulerResult, error) {
	if timeLimitSeconds <= 0 {
		timeLimitSeconds = 10
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeLimitSeconds)*time.Second)
	defer cancel()

	workerCount := s.maxWorkers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
		if workerCount > 8 {
			workerCount = 8
		}
	}
	if workerCount < 1 {
		workerCount = 1
	}

	type attempt struct {
		state *placementState
		ok    bool
	}

	results := make(chan attempt, workerCount)
	var wg sync.WaitGroup

	for worker := 0; worker < workerCount; worker++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			order := courseOrdering(master.Courses, idx)
			state := newPlacementState(master)
			ok := state.placeAll(order)
			select {
			case results <- attempt{state: state, ok: ok}:
			case <-ctx.Done():
			}
		}(worker)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var feasible *placementState
	for a := range results {
		if a.ok {
			feasible = a.state
			cancel()
			break
		}
		select {
		case <-ctx.Done():
		default:
		}
	}

	if feasible == nil {
		s.logger.Debug("student scheduler found no feasible assignment", zap.Int("workers", workerCount))
		return nil, ErrInfeasible
	}

	deadline, hasDeadline := ctx.Deadline()
	remaining := time.Until(deadline)
	if !hasDeadline || remaining < 0 {
		remaining = 0
	}
	feasible.repair(master, remaining)

	return feasible.buildResult(master), nil
}

// courseOrdering returns a deterministic course ordering variant for the
// given worker index: 0 is input order, 1 is most-constrained-first
// (lab-requiring courses first, ties broken by higher required-sessions),
// 2 is descending required-sessions, and any
// further worker applies a seeded shuffle so additional workers explore
// genuinely different search paths rather than repeating the same three.
func courseOrdering(courses []models.Course, workerIdx int) []models.Course {
	order := make([]models.Course, len(courses))
	copy(order, courses)

	switch workerIdx {
	case 0:
		// input order
	case 1:
		// Most-constrained-first: lab-requiring courses (fewest eligible
		// rooms, typically) before theory courses, ties broken by higher
		// session demand first.
		sort.SliceStable(order, func(i, j int) bool {
			li, lj := order[i].RequiresLab(), order[j].RequiresLab()
			if li != lj {
				return li
			}
			return order[i].RequiredSessions() > order[j].RequiredSessions()
		})
	case 2:
		sort.SliceStable(order, func(i, j int) bool {
			return order[i].RequiredSessions() > order[j].RequiredSessions()
		})
	default:
		r := rand.New(rand.NewSource(int64(workerIdx)))
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	return order
}
