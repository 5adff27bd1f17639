package service

import (
	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
	"go.uber.org/zap"
)

// maxTreeDepth bounds recursion so a parent cycle in stored data truncates
// the affected branch instead of hanging the request.
const maxTreeDepth = 100

// TreeNode is the wire shape the tree view consumes. The json names are a
// front-end contract; do not rename them.
type TreeNode struct {
	Title       string      `json:"title"`
	Key         string      `json:"key"`
	NType       string      `json:"ntype"`
	Desc        string      `json:"desc"`
	State       string      `json:"state"`
	Student     string      `json:"student"`
	Mentor      string      `json:"mentor"`
	NextStates  []string    `json:"nextstates"`
	HasChildren bool        `json:"haschildren"`
	Children    []*TreeNode `json:"children"`
}

// TreeService reassembles a robot's flat part list into its nested form.
type TreeService struct {
	transitions *TransitionService
	log         *zap.Logger
}

func NewTreeService(transitions *TransitionService, log *zap.Logger) *TreeService {
	return &TreeService{transitions: transitions, log: log}
}

// BuildTree assembles the branch rooted at rootSeq. The user (nil for
// anonymous report contexts) determines the nextstates on each node.
func (s *TreeService) BuildTree(user *entity.User, rootSeq int, flat []entity.RobotPart) *TreeNode {
	byParent := make(map[int][]*entity.RobotPart)
	bySeq := make(map[int]*entity.RobotPart)
	for i := range flat {
		p := &flat[i]
		bySeq[p.Sequence] = p
		byParent[p.ParentSeq] = append(byParent[p.ParentSeq], p)
	}
	root, ok := bySeq[rootSeq]
	if !ok {
		return nil
	}
	return s.buildNode(user, root, byParent, 1)
}

// BuildForest assembles every top-level assembly of the flat list.
func (s *TreeService) BuildForest(user *entity.User, flat []entity.RobotPart) []*TreeNode {
	var forest []*TreeNode
	for i := range flat {
		if flat[i].ParentSeq == entity.RootParent {
			if node := s.BuildTree(user, flat[i].Sequence, flat); node != nil {
				forest = append(forest, node)
			}
		}
	}
	return forest
}

func (s *TreeService) buildNode(user *entity.User, part *entity.RobotPart, byParent map[int][]*entity.RobotPart, depth int) *TreeNode {
	number := part.Number().String()
	node := &TreeNode{
		Title:      number + " " + part.Description,
		Key:        number,
		NType:      part.TypeTag,
		Desc:       part.Description,
		State:      part.State,
		Student:    part.Student,
		Mentor:     part.Mentor,
		NextStates: s.transitions.LegalNextStates(user, part),
	}

	t, err := parttype.TypeFor(part.TypeTag)
	if err != nil || !t.CanHaveChildren {
		return node
	}
	children := byParent[part.Sequence]
	node.HasChildren = len(children) > 0

	if depth >= maxTreeDepth {
		// Truncate rather than fail the whole request; almost certainly a
		// parent cycle in stored data.
		s.log.Warn("part tree exceeds depth ceiling, truncating branch",
			zap.String("part", number),
			zap.Int("depth", depth),
		)
		return node
	}
	for _, child := range children {
		node.Children = append(node.Children, s.buildNode(user, child, byParent, depth+1))
	}
	return node
}
