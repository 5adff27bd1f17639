package parttype

// Type tags. The tag is the single character embedded in part numbers.
const (
	TagAssembly     = "A"
	TagCOTS         = "C"
	TagManufactured = "M"
)

// State names shared across flows.
const (
	StateUnassigned   = "Unassigned"
	StateDone         = "Done"
	StateReadyToOrder = "Ready To Order"
	StateOrdered      = "Ordered"
	StateArrived      = "Arrived"
)

// Due-date attributes carried by every type; the lateness report reads them.
// Dates are stored as yyyy-mm-dd strings; anything else counts as "no date".
const (
	AttrNextStateDue = "Next State Due"
	AttrDoneDue      = "Done Due"
	DateLayout       = "2006-01-02"
)

// AttrUnitCost is the COTS attribute the purchase-order aggregation reads.
const AttrUnitCost = "Unit Cost"

var dueDates = []AttrDef{
	{Name: AttrNextStateDue, Kind: KindString},
	{Name: AttrDoneDue, Kind: KindString},
}

var assembly = &PartType{
	Tag:             TagAssembly,
	Name:            "Assembly",
	CanHaveChildren: true,
	Schema: append([]AttrDef{
		{Name: "Priority", Kind: KindChoice, Default: "Medium", Choices: []string{"Low", "Medium", "High"}},
	}, dueDates...),
	Flow: []StateNode{
		{Name: StateUnassigned, Edges: []Edge{
			{Next: "Designing", Actor: ActorAssignedStudent},
		}},
		{Name: "Designing", Edges: []Edge{
			{Next: "Design Review", Actor: ActorAssignedStudent},
			{Next: StateUnassigned, Actor: ActorAnyone},
		}},
		{Name: "Design Review", Edges: []Edge{
			{Next: StateDone, Actor: ActorMentor},
			{Next: "Designing", Actor: ActorMentor},
		}},
		{Name: StateDone, Edges: []Edge{
			{Next: "Designing", Actor: ActorMentor},
		}},
	},
}

var cots = &PartType{
	Tag:             TagCOTS,
	Name:            "COTS",
	CanHaveChildren: false,
	Schema: append([]AttrDef{
		{Name: "Vendor", Kind: KindString, Required: true},
		{Name: "Vendor Part Number", Kind: KindString},
		{Name: AttrUnitCost, Kind: KindCurrency},
		{Name: "Link", Kind: KindString},
	}, dueDates...),
	Flow: []StateNode{
		{Name: StateUnassigned, Edges: []Edge{
			{Next: StateReadyToOrder, Actor: ActorAnyone},
		}},
		{Name: StateReadyToOrder, Edges: []Edge{
			{Next: StateOrdered, Actor: ActorMentor},
			{Next: StateDone, Actor: ActorMentor},
			{Next: StateUnassigned, Actor: ActorAnyone},
		}},
		{Name: StateOrdered, Edges: []Edge{
			{Next: StateArrived, Actor: ActorAnyone},
			{Next: StateDone, Actor: ActorMentor},
		}},
		{Name: StateArrived, Edges: []Edge{
			{Next: StateDone, Actor: ActorAnyone},
		}},
		{Name: StateDone, Edges: []Edge{
			{Next: StateReadyToOrder, Actor: ActorMentor},
		}},
	},
}

var manufactured = &PartType{
	Tag:             TagManufactured,
	Name:            "Manufactured",
	CanHaveChildren: false,
	Schema: append([]AttrDef{
		{Name: "Material", Kind: KindString},
		{Name: "Process", Kind: KindChoice, Default: "Mill", Choices: []string{"Mill", "Lathe", "Router", "3D Print", "Laser", "Hand"}},
		{Name: "Drawing Number", Kind: KindString},
		{Name: "Machine Hours", Kind: KindDouble},
		{Name: "Reviewing Mentor", Kind: KindMentor},
	}, dueDates...),
	Flow: []StateNode{
		{Name: StateUnassigned, Edges: []Edge{
			{Next: "Drawing In Progress", Actor: ActorAssignedStudent},
		}},
		{Name: "Drawing In Progress", Edges: []Edge{
			{Next: "Drawing Review", Actor: ActorAssignedStudent},
			{Next: StateUnassigned, Actor: ActorAnyone},
		}},
		{Name: "Drawing Review", Edges: []Edge{
			{Next: "Ready To Manufacture", Actor: ActorAssignedMentor},
			{Next: "Drawing In Progress", Actor: ActorMentor},
		}},
		{Name: "Ready To Manufacture", Edges: []Edge{
			{Next: "Manufacturing", Actor: ActorStudent},
		}},
		{Name: "Manufacturing", Edges: []Edge{
			{Next: "Manufactured", Actor: ActorAssignedStudent},
		}},
		{Name: "Manufactured", Edges: []Edge{
			{Next: StateDone, Actor: ActorMentor},
			{Next: "Manufacturing", Actor: ActorMentor},
		}},
		{Name: StateDone, Edges: []Edge{
			{Next: StateUnassigned, Actor: ActorMentor},
		}},
	},
}
